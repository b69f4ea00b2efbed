// Package diagnostics reports at startup which optional integrations are
// configured and reachable. It never writes data or sends mail.
package diagnostics

import (
	"context"
	"fmt"
	"time"

	"github.com/athaan-fi-beit/backend/internal/config"
	"github.com/athaan-fi-beit/backend/internal/repository"
	"github.com/athaan-fi-beit/backend/pkg/logger"

	"go.uber.org/zap"
)

const checkTimeout = 3 * time.Second

type Status string

const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded"
	StatusFailed   Status = "failed"
)

type Check struct {
	Name   string
	Status Status
	Detail string
}

type Report struct {
	Checks []Check
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function, such as a redis ping, to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error {
	return f(ctx)
}

type MailVerifier interface {
	Verify() error
}

type Deps struct {
	Config *config.Config
	Repos  *repository.Repositories
	// DB is nil when registrants are kept in memory.
	DB Pinger
	// Mail is nil when no relay account is configured.
	Mail  MailVerifier
	Redis Pinger
}

func Run(ctx context.Context, deps Deps) Report {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	var r Report
	r.add(storeCheck(ctx, deps))
	r.add(registrantCountCheck(ctx, deps.Repos))
	r.add(mailCheck(deps.Config, deps.Mail))
	r.add(adminCheck(deps.Config))
	r.add(recaptchaCheck(deps.Config.Recaptcha))
	r.add(queueCheck(ctx, deps.Config.Cache, deps.Redis))

	return r
}

func (r *Report) add(c Check) {
	r.Checks = append(r.Checks, c)
}

// Status is the worst status among the checks.
func (r Report) Status() Status {
	status := StatusOK
	for _, c := range r.Checks {
		switch c.Status {
		case StatusFailed:
			return StatusFailed
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}

// Healthy is false when any configured integration failed its check.
func (r Report) Healthy() bool {
	return r.Status() != StatusFailed
}

func (r Report) Log() {
	for _, c := range r.Checks {
		fields := []zap.Field{zap.String("check", c.Name), zap.String("detail", c.Detail)}
		switch c.Status {
		case StatusOK:
			logger.Info("setup check passed", fields...)
		case StatusDegraded:
			logger.Warn("setup check degraded", fields...)
		default:
			logger.Error("setup check failed", fields...)
		}
	}

	summary := []zap.Field{zap.String("status", string(r.Status())), zap.Int("checks", len(r.Checks))}
	if r.Healthy() {
		logger.Info("setup checks finished", summary...)
	} else {
		logger.Error("setup checks finished with failures", summary...)
	}
}

func storeCheck(ctx context.Context, deps Deps) Check {
	c := Check{Name: "store"}
	if deps.Repos.Kind == repository.KindMemory {
		c.Status = StatusDegraded
		c.Detail = "DB_DSN not set, registrants are kept in memory"
		return c
	}

	if deps.DB == nil {
		c.Status = StatusFailed
		c.Detail = "mysql store without connection"
		return c
	}

	if err := deps.DB.PingContext(ctx); err != nil {
		c.Status = StatusFailed
		c.Detail = fmt.Sprintf("mysql ping failed: %s", err)
		return c
	}

	c.Status = StatusOK
	c.Detail = "mysql reachable"
	return c
}

func registrantCountCheck(ctx context.Context, repos *repository.Repositories) Check {
	c := Check{Name: "registrants"}
	count, err := repos.Registrants.Count(ctx)
	if err != nil {
		c.Status = StatusFailed
		c.Detail = err.Error()
		return c
	}

	c.Status = StatusOK
	c.Detail = fmt.Sprintf("%d registrants stored", count)
	return c
}

func mailCheck(cfg *config.Config, mail MailVerifier) Check {
	c := Check{Name: "mail"}
	if !cfg.SMTP.Configured() || mail == nil {
		c.Status = StatusDegraded
		c.Detail = "EMAIL_USER or EMAIL_PASS not set, notifications are skipped"
		return c
	}

	if err := mail.Verify(); err != nil {
		c.Status = StatusFailed
		c.Detail = fmt.Sprintf("smtp verify failed: %s", err)
		return c
	}

	c.Status = StatusOK
	c.Detail = "smtp credentials accepted"
	return c
}

func adminCheck(cfg *config.Config) Check {
	c := Check{Name: "admin_email"}
	if cfg.Email.AdminEmail == "" {
		c.Status = StatusDegraded
		c.Detail = "ADMIN_EMAIL not set, admin alerts are skipped"
		return c
	}

	c.Status = StatusOK
	c.Detail = "admin alerts enabled"
	return c
}

func recaptchaCheck(cfg config.Recaptcha) Check {
	c := Check{Name: "recaptcha"}
	if !cfg.Enabled() {
		c.Status = StatusDegraded
		c.Detail = "RECAPTCHA_SECRET not set, verification is bypassed"
		return c
	}

	c.Status = StatusOK
	c.Detail = fmt.Sprintf("verification enabled, min score %.2f", cfg.MinScore)
	return c
}

func queueCheck(ctx context.Context, cfg config.Cache, redis Pinger) Check {
	c := Check{Name: "notification_queue"}
	if !cfg.Enabled() {
		c.Status = StatusOK
		c.Detail = "REDIS_ADDR not set, notifications are sent inline"
		return c
	}

	if redis == nil {
		c.Status = StatusFailed
		c.Detail = "redis configured but not connected"
		return c
	}

	if err := redis.PingContext(ctx); err != nil {
		c.Status = StatusFailed
		c.Detail = fmt.Sprintf("redis ping failed: %s", err)
		return c
	}

	c.Status = StatusOK
	c.Detail = "notifications are queued"
	return c
}
