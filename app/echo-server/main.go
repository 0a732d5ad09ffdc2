package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"npsSurvey/app/echo-server/router"
	"npsSurvey/business/invitation"
	"npsSurvey/business/questionnaire"
	"npsSurvey/business/response"
	"npsSurvey/internal/middleware"
	psqlRepo "npsSurvey/internal/repository/postgres"
	redisRepo "npsSurvey/internal/repository/redis"
	"npsSurvey/internal/rest"
	"npsSurvey/internal/scheduler"
	"npsSurvey/pkg/config"
	"npsSurvey/pkg/database"
	redisDB "npsSurvey/pkg/database/redis"
	"npsSurvey/pkg/logger"
	"npsSurvey/pkg/metrics"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting NPS survey service", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	metrics.Init()

	// Init repo
	ordersRepo := psqlRepo.NewOrdersRepository(db)
	surveyCustomerRepo := psqlRepo.NewSurveyCustomerRepository(db)
	surveyResponseRepo := psqlRepo.NewSurveyResponseRepository(db)
	questionnaireRepo := psqlRepo.NewQuestionnaireRepository(db)

	var invitationOpts []invitation.Option
	var redisClient *redis.Client
	if cfg.Redis.RedisHost != "" {
		redisClient, err = redisDB.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to redis", "error", err)
		}
		invitationOpts = append(invitationOpts, invitation.WithRunLocker(redisRepo.NewRunLockRepository(redisClient)))
		logger.Info("Redis connected, selector run lock enabled")
	} else {
		logger.Warn("REDIS_HOST not set, selector runs are not locked across replicas")
	}

	// Init service
	invitationService := invitation.NewInvitationService(
		ordersRepo,
		surveyCustomerRepo,
		invitation.Rules{
			DeliveryLagDays:    cfg.Survey.DeliveryLagDays,
			CooldownDays:       cfg.Survey.CooldownDays,
			MaxUnfilled:        cfg.Survey.MaxUnfilled,
			ExcludedCategories: cfg.Survey.ExcludedCategories,
			Location:           cfg.Survey.Location,
		},
		invitation.Forms{
			Host:   cfg.Typeform.Host,
			FormV1: cfg.Typeform.FormV1,
			FormV2: cfg.Typeform.FormV2,
		},
		invitationOpts...,
	)
	responseService := response.NewResponseService(surveyResponseRepo, surveyCustomerRepo, response.FormFields{
		FormV1:      cfg.Typeform.FormV1,
		AgeField:    cfg.Typeform.AgeField,
		GenderField: cfg.Typeform.GenderField,
	})
	questionnaireService := questionnaire.NewQuestionnaireService(questionnaireRepo)

	// Init handler
	surveyHandler := rest.NewSurveyHandler(invitationService, responseService, cfg.Typeform.WebhookSecret)
	reportHandler := rest.NewReportHandler(invitationService, responseService, questionnaireService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	// Setup routes
	router.SetSurveyRoutes(e, surveyHandler)
	router.SetOpsRoutes(e)
	api := e.Group("/api/v1")
	router.SetReportRoutes(api, reportHandler)

	var selectorCron *cron.Cron
	if cfg.Cron.Schedule != "" {
		selectorCron, err = scheduler.Start(cfg.Cron.Schedule, scheduler.NewSelectorJob(invitationService, cfg.Cron.ExportDir))
		if err != nil {
			logger.Fatal("Failed to start selector cron", "error", err)
		}
	}

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if selectorCron != nil {
		select {
		case <-selectorCron.Stop().Done():
		case <-ctx.Done():
			logger.Warn("Selector run still in progress at shutdown")
		}
	}

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if err := redisDB.CloseRedisClient(redisClient); err != nil {
		logger.Error("Redis close error", "error", err)
	}
	if err := database.ClosePostgres(db); err != nil {
		logger.Error("Database close error", "error", err)
	}

	logger.Info("Server stopped")
}
