package main

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/zap"

	_ "github.com/noah-isme/studytracker-api/api/swagger"
	"github.com/noah-isme/studytracker-api/internal/handler"
	"github.com/noah-isme/studytracker-api/internal/middleware"
	"github.com/noah-isme/studytracker-api/internal/repository"
	"github.com/noah-isme/studytracker-api/internal/service"
	"github.com/noah-isme/studytracker-api/pkg/cache"
	"github.com/noah-isme/studytracker-api/pkg/config"
	"github.com/noah-isme/studytracker-api/pkg/database"
	"github.com/noah-isme/studytracker-api/pkg/logger"
)

// @title Study Tracker API
// @version 1.0.0
// @description Personal study tracker: goals, study sessions, progress and analytics.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.Open(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db.DB, cfg.Database.Driver); err != nil {
			logr.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(context.Background(), cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, serving reports uncached", zap.Error(err))
		} else {
			redisRepo := repository.NewCacheRepository(client)
			defer redisRepo.Close()
			cacheRepo = redisRepo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	validate := service.NewValidator()
	goalRepo := repository.NewGoalRepository(db)
	sessionRepo := repository.NewStudySessionRepository(db)

	goalSvc := service.NewGoalService(service.GoalServiceParams{
		Goals:     goalRepo,
		Sessions:  sessionRepo,
		Cache:     cacheSvc,
		Metrics:   metricsSvc,
		Validator: validate,
		Logger:    logr,
		Location:  cfg.Location(),
	})
	sessionSvc := service.NewStudySessionService(service.StudySessionServiceParams{
		Sessions:  sessionRepo,
		Cache:     cacheSvc,
		Metrics:   metricsSvc,
		Validator: validate,
		Logger:    logr,
	})
	exportSvc := service.NewExportService(sessionSvc, cfg.Location(), logr)

	var auth middleware.TokenValidator
	if cfg.Auth.Enabled {
		auth = service.NewAuthService(service.AuthConfig{
			Secret:        cfg.Auth.Secret,
			Issuer:        cfg.Auth.Issuer,
			DefaultExpiry: cfg.Auth.Expiration,
		})
	}

	r := handler.NewRouter(handler.RouterParams{
		Config:   cfg,
		Logger:   logr,
		Metrics:  metricsSvc,
		Auth:     auth,
		Goals:    handler.NewGoalHandler(goalSvc),
		Sessions: handler.NewStudySessionHandler(sessionSvc, exportSvc),
		Health:   handler.NewMetricsHandler(metricsSvc, db),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting",
		"addr", addr,
		"env", cfg.Env,
		"driver", cfg.Database.Driver,
		"cache", cacheSvc.Enabled(),
		"auth", cfg.Auth.Enabled,
	)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
