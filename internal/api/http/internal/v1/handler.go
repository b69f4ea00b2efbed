package v1

import (
	"github.com/athaan-fi-beit/backend/internal/metrics"
	"github.com/athaan-fi-beit/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// @title Athaan Fi Beit Signup API
// @version 1.0
// @description Landing page signup intake

// @BasePath /api

type Handler struct {
	services *service.Services
	metrics  *metrics.Metrics
}

func NewHandler(services *service.Services, metrics *metrics.Metrics) *Handler {
	return &Handler{
		services: services,
		metrics:  metrics,
	}
}

func (h *Handler) Init(api *gin.RouterGroup) {
	h.initSignupRoutes(api)
}
