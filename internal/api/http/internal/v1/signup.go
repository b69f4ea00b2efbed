package v1

import (
	"errors"
	"net/http"

	"github.com/athaan-fi-beit/backend/internal/metrics"
	"github.com/athaan-fi-beit/backend/internal/service"
	"github.com/athaan-fi-beit/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) initSignupRoutes(api *gin.RouterGroup) {
	api.POST("/signup", h.signup)
}

type signupRequest struct {
	Name           string `json:"name" form:"name" binding:"required,notblank,max=255"`
	Email          string `json:"email" form:"email" binding:"required,notblank,max=320"`
	Phone          string `json:"phone" form:"phone" binding:"required,notblank,max=64"`
	RecaptchaToken string `json:"recaptchaToken" form:"recaptchaToken"`
} // @name SignupRequest

// @Summary Sign up
// @Tags Signup
// @Description Registers a person from the landing page form and sends the welcome and admin emails
// @ModuleID signup
// @Accept  json
// @Produce  json
// @Param input body signupRequest true "signup form"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 409 {object} MessageResponse
// @Failure 429 {object} MessageResponse
// @Failure 500 {object} MessageResponse
// @Router /signup [post]
func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBind(&req); err != nil {
		h.metrics.ObserveSignup(metrics.OutcomeInvalid)
		validationErrorResponse(c, err)
		return
	}

	_, err := h.services.Signup.Register(c.Request.Context(), service.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		RecaptchaToken: req.RecaptchaToken,
		RemoteIP:       c.ClientIP(),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			h.metrics.ObserveSignup(metrics.OutcomeInvalid)
			messageResponse(c, http.StatusBadRequest, FieldsRequiredMessage)
		case errors.Is(err, service.ErrVerificationFailed):
			h.metrics.ObserveSignup(metrics.OutcomeVerificationFailed)
			messageResponse(c, http.StatusBadRequest, VerificationFailedMessage)
		case errors.Is(err, service.ErrRegistrantAlreadyExists):
			h.metrics.ObserveSignup(metrics.OutcomeDuplicate)
			messageResponse(c, http.StatusConflict, AlreadyRegisteredMessage)
		default:
			h.metrics.ObserveSignup(metrics.OutcomeError)
			logger.Error("signup failed", zap.Error(err))
			messageResponse(c, http.StatusInternalServerError, ServerErrorMessage)
		}
		return
	}

	h.metrics.ObserveSignup(metrics.OutcomeCreated)
	c.JSON(http.StatusOK, MessageResponse{Message: SignupSuccessfulMessage})
}
