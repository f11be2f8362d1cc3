package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/studytracker-api/internal/middleware"
	"github.com/noah-isme/studytracker-api/internal/service"
	"github.com/noah-isme/studytracker-api/pkg/config"
	"github.com/noah-isme/studytracker-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/studytracker-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/studytracker-api/pkg/middleware/requestid"
)

// RouterParams wires handlers and cross-cutting concerns into the engine.
type RouterParams struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *service.MetricsService
	Auth     middleware.TokenValidator
	Goals    *GoalHandler
	Sessions *StudySessionHandler
	Health   *MetricsHandler
}

// NewRouter builds the gin engine. API routes require a bearer token only
// when Auth is set.
func NewRouter(p RouterParams) *gin.Engine {
	cfg := p.Config
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(p.Metrics))

	r.GET("/health", p.Health.Health)
	r.GET("/ready", p.Health.Ready)
	r.GET("/metrics", p.Health.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	if p.Auth != nil {
		api.Use(middleware.JWT(p.Auth))
	}

	goals := api.Group("/goals")
	goals.POST("", p.Goals.Create)
	goals.GET("", p.Goals.List)
	goals.GET("/active", p.Goals.ListActive)
	goals.GET("/:id", p.Goals.Get)
	goals.PUT("/:id", p.Goals.Update)
	goals.DELETE("/:id", p.Goals.Delete)
	goals.GET("/:id/progress", p.Goals.Progress)

	sessions := api.Group("/sessions")
	sessions.POST("", p.Sessions.Create)
	sessions.GET("", p.Sessions.List)
	sessions.GET("/range", p.Sessions.Range)
	sessions.GET("/export", p.Sessions.Export)
	sessions.GET("/analytics/:period", p.Sessions.Analytics)
	sessions.GET("/:id", p.Sessions.Get)
	sessions.DELETE("/:id", p.Sessions.Delete)

	return r
}
