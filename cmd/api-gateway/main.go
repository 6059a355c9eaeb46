package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ajmalakeel/tuition-center-api/api/swagger"
	"github.com/ajmalakeel/tuition-center-api/internal/aihelp"
	"github.com/ajmalakeel/tuition-center-api/internal/handler"
	internalmiddleware "github.com/ajmalakeel/tuition-center-api/internal/middleware"
	"github.com/ajmalakeel/tuition-center-api/internal/repository"
	"github.com/ajmalakeel/tuition-center-api/internal/service"
	"github.com/ajmalakeel/tuition-center-api/pkg/cache"
	"github.com/ajmalakeel/tuition-center-api/pkg/config"
	"github.com/ajmalakeel/tuition-center-api/pkg/database"
	"github.com/ajmalakeel/tuition-center-api/pkg/logger"
	corsmiddleware "github.com/ajmalakeel/tuition-center-api/pkg/middleware/cors"
	reqidmiddleware "github.com/ajmalakeel/tuition-center-api/pkg/middleware/requestid"
)

// @title Tuition Center API
// @version 1.0.0
// @description Management API for Ajmal Akeel Tuition Center
// @BasePath /api/v1
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Dashboard.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, dashboard cache disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, true)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	validate := validator.New()

	studentRepo := repository.NewStudentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	feeRepo := repository.NewFeeRepository(db)
	remarkRepo := repository.NewRemarkRepository(db)

	studentSvc := service.NewStudentService(studentRepo, validate, cacheSvc, logr)
	attendanceSvc := service.NewAttendanceService(studentRepo, attendanceRepo, validate, cacheSvc, logr)
	feeSvc := service.NewFeeService(feeRepo, studentRepo, validate, cacheSvc, service.ReminderConfig{
		CenterName:      cfg.Reminder.CenterName,
		CenterNameTamil: cfg.Reminder.CenterNameTamil,
	}, logr)
	remarkSvc := service.NewRemarkService(remarkRepo, studentRepo, validate, cacheSvc, logr)
	dashboardSvc := service.NewDashboardService(studentRepo, attendanceRepo, feeRepo, remarkRepo, cacheSvc, logr)

	var assistantSvc *service.AssistantService
	if cfg.Assistant.Enabled && cfg.Assistant.Endpoint != "" {
		client := aihelp.NewClient(cfg.Assistant.Endpoint, cfg.Assistant.APIKey, cfg.Assistant.Timeout, logr)
		assistantSvc = service.NewAssistantService(client, logr)
	} else {
		assistantSvc = service.NewAssistantService(nil, logr)
	}

	studentHandler := handler.NewStudentHandler(studentSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	feeHandler := handler.NewFeeHandler(feeSvc)
	remarkHandler := handler.NewRemarkHandler(remarkSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	assistantHandler := handler.NewAssistantHandler(assistantSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.JWT(cfg.JWT.Secret))
	{
		api.GET("/students", studentHandler.List)
		api.POST("/students", studentHandler.Create)
		api.GET("/students/:id", studentHandler.Get)
		api.DELETE("/students/:id", studentHandler.Delete)

		api.GET("/attendance", attendanceHandler.Sheet)
		api.PUT("/attendance", attendanceHandler.Save)

		api.GET("/fees", feeHandler.List)
		api.POST("/fees", feeHandler.Add)
		api.POST("/fees/:id/pay", feeHandler.MarkPaid)
		api.GET("/fees/:id/reminder", feeHandler.Reminder)
		api.GET("/fees/export", feeHandler.Export)

		api.GET("/remarks", remarkHandler.List)
		api.POST("/remarks", remarkHandler.Add)

		api.GET("/dashboard", dashboardHandler.Overview)

		api.POST("/assistant/ask", assistantHandler.Ask)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
