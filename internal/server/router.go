package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/noah-isme/exhibit-api/internal/handler"
	"github.com/noah-isme/exhibit-api/internal/middleware"
	"github.com/noah-isme/exhibit-api/internal/models"
	"github.com/noah-isme/exhibit-api/internal/service"
	"github.com/noah-isme/exhibit-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/exhibit-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/exhibit-api/pkg/middleware/requestid"
)

// RouterConfig carries the handlers and cross-cutting dependencies of the HTTP surface.
type RouterConfig struct {
	APIPrefix      string
	ServiceName    string
	AllowedOrigins []string
	EnableDocs     bool
	EnableMetrics  bool
	EnableTracing  bool

	Logger         *zap.Logger
	Metrics        *service.MetricsService
	Tokens         middleware.TokenValidator
	Submissions    *handler.SubmissionHandler
	Discovery      *handler.DiscoveryHandler
	MetricsHandler *handler.MetricsHandler
}

// NewRouter assembles the gin engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	if cfg.EnableTracing {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(logger.GinMiddleware(cfg.Logger))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics, "/metrics", "/health"))

	r.GET("/health", cfg.MetricsHandler.Health)
	r.GET("/ready", cfg.MetricsHandler.Ready)
	if cfg.EnableMetrics {
		r.GET("/metrics", cfg.MetricsHandler.Prometheus)
	}
	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	// public discovery
	public := api.Group("/public/submissions")
	public.Use(middleware.OptionalJWT(cfg.Tokens), middleware.WithResponseMeta())
	{
		public.GET("", cfg.Discovery.Feed)
		public.GET("/:id", cfg.Discovery.View)
		public.POST("/:id/ratings", cfg.Discovery.Rate)
		public.POST("/:id/favorite", cfg.Discovery.Favorite)
		public.POST("/:id/share", cfg.Discovery.Share)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(cfg.Tokens))

	submissions := protected.Group("/submissions")
	{
		submissions.GET("", cfg.Submissions.List)
		submissions.POST("", cfg.Submissions.Create)
		submissions.GET("/artifacts", cfg.Submissions.Artifacts)
		submissions.GET("/stats", cfg.Submissions.Stats)
		submissions.GET("/stats/export", cfg.Submissions.ExportStats)
		submissions.GET("/:id", cfg.Submissions.Get)
		submissions.PUT("/:id", cfg.Submissions.Update)
		submissions.DELETE("/:id", cfg.Submissions.Delete)
		submissions.POST("/:id/submit", cfg.Submissions.Submit)
		submissions.GET("/:id/history", cfg.Submissions.History)
		submissions.POST("/:id/review", middleware.RequireElevated(), cfg.Submissions.Review)
		submissions.POST("/:id/publish", middleware.RequireElevated(), cfg.Submissions.Publish)
	}

	protected.GET("/metrics/summary", middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin), cfg.MetricsHandler.Summary)

	return r
}
