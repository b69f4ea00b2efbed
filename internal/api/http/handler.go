package apiHttp

import (
	"context"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/athaan-fi-beit/backend/docs"
	"github.com/athaan-fi-beit/backend/pkg/limiter"
	"github.com/athaan-fi-beit/backend/pkg/logger"
	"github.com/athaan-fi-beit/backend/pkg/validator"

	internalV1 "github.com/athaan-fi-beit/backend/internal/api/http/internal/v1"
	"github.com/athaan-fi-beit/backend/internal/config"
	"github.com/athaan-fi-beit/backend/internal/metrics"
	"github.com/athaan-fi-beit/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	services *service.Services
	config   *config.Config
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
}

func NewHandlers(services *service.Services, cfg *config.Config, metrics *metrics.Metrics, gatherer prometheus.Gatherer) *Handler {
	return &Handler{
		services: services,
		config:   cfg,
		metrics:  metrics,
		gatherer: gatherer,
	}
}

const maxAPIBodyBytes = 16 << 10

// Init builds the router. Background work started here, such as the limiter
// sweeper, stops when ctx is done.
func (h *Handler) Init(ctx context.Context, cfg *config.Config) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	validator.RegisterGinValidator()

	router.Use(
		ginzap.Ginzap(logger.Logger(), time.RFC3339, true),
		corsMiddleware(cfg.HttpServer.CORSOrigins),
	)
	router.Use(ginzap.RecoveryWithZap(logger.Logger(), true))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))

	if cfg.HttpServer.SwaggerEnabled {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.NewHandler(), ginSwagger.InstanceName("internal")))
	}

	h.initAPI(ctx, router, cfg)

	landing, err := newLanding(cfg.Recaptcha.SiteKey)
	if err != nil {
		return nil, err
	}
	router.NoRoute(landing.serve)

	return router, nil
}

func (h *Handler) initAPI(ctx context.Context, router *gin.Engine, cfg *config.Config) {
	internalHandlersV1 := internalV1.NewHandler(h.services, h.metrics)
	api := router.Group("/api",
		limiter.Limit(ctx, cfg.Limiter.RPS, cfg.Limiter.Burst, cfg.Limiter.TTL),
		bodyLimitMiddleware(maxAPIBodyBytes),
	)
	internalHandlersV1.Init(api)
}
