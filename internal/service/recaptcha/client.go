package recaptcha

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/athaan-fi-beit/backend/internal/config"
	"github.com/athaan-fi-beit/backend/pkg/logger"

	"go.uber.org/zap"
)

const maxResponseBytes = 64 << 10

// Reason says why an Outcome did not pass.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonBypassed    Reason = "bypassed"
	ReasonRejected    Reason = "rejected"
	ReasonLowScore    Reason = "low_score"
	ReasonUnavailable Reason = "unavailable"
)

type Outcome struct {
	Passed bool
	Score  *float64
	Reason Reason
}

// SiteVerifyResponse is the siteverify reply. Success is a pointer so that a
// reply without the field is told apart from an explicit false.
type SiteVerifyResponse struct {
	Success    *bool    `json:"success"`
	Score      *float64 `json:"score,omitempty"`
	Action     string   `json:"action,omitempty"`
	Hostname   string   `json:"hostname,omitempty"`
	ErrorCodes []string `json:"error-codes,omitempty"`
}

type Client struct {
	secret     string
	minScore   float64
	verifyURL  string
	httpClient *http.Client
}

func NewClient(cfg config.Recaptcha) *Client {
	return &Client{
		secret:    cfg.Secret,
		minScore:  cfg.MinScore,
		verifyURL: cfg.VerifyURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Enabled is false when no secret is configured; Verify then always passes.
func (c *Client) Enabled() bool {
	return c.secret != ""
}

// Verify makes one siteverify call. It never returns an error: anything that
// prevents a definite answer from the remote side is a failed outcome.
func (c *Client) Verify(ctx context.Context, token string, remoteIP string) Outcome {
	if !c.Enabled() {
		score := 1.0
		return Outcome{Passed: true, Score: &score, Reason: ReasonBypassed}
	}

	resp, err := c.siteVerify(ctx, token, remoteIP)
	if err != nil {
		logger.Error("recaptcha verify failed", zap.Error(err))
		return Outcome{Reason: ReasonUnavailable}
	}

	outcome := Decide(resp, c.minScore)
	if !outcome.Passed {
		fields := []zap.Field{
			zap.String("reason", string(outcome.Reason)),
			zap.Strings("error_codes", resp.ErrorCodes),
			zap.String("action", resp.Action),
			zap.String("hostname", resp.Hostname),
		}
		if resp.Score != nil {
			fields = append(fields, zap.Float64("score", *resp.Score))
		}
		logger.Warn("recaptcha verification rejected", fields...)
	}

	return outcome
}

// Decide fails unless success is explicitly true, and fails when a score is
// present below minScore.
func Decide(resp *SiteVerifyResponse, minScore float64) Outcome {
	if resp == nil || resp.Success == nil || !*resp.Success {
		return Outcome{Reason: ReasonRejected}
	}

	if resp.Score != nil && *resp.Score < minScore {
		return Outcome{Score: resp.Score, Reason: ReasonLowScore}
	}

	return Outcome{Passed: true, Score: resp.Score}
}

func (c *Client) siteVerify(ctx context.Context, token string, remoteIP string) (*SiteVerifyResponse, error) {
	form := url.Values{}
	form.Set("secret", c.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	var verifyResp SiteVerifyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&verifyResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &verifyResp, nil
}
