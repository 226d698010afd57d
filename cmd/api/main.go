package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventcalendar/config"
	"eventcalendar/internal/adapters/auth"
	"eventcalendar/internal/adapters/email"
	deliveryhttp "eventcalendar/internal/delivery/http"
	"eventcalendar/internal/delivery/http/controllers"
	"eventcalendar/internal/delivery/http/middleware"
	"eventcalendar/internal/domain"
	"eventcalendar/internal/repository/postgres"
	"eventcalendar/internal/scheduler"
	"eventcalendar/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title Event Calendar API
// @version 1.0
// @description Calendar backend with recurring event series, contact lists and email reminders.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	userRepo := postgres.NewUserRepository(db)
	contactListRepo := postgres.NewContactListRepository(db)

	hasher := auth.NewBcryptHasher(12)
	tokenIssuer := auth.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)

	mailer := email.NewMailer(email.MailerConfig{
		Provider:        cfg.EmailProvider,
		FromAddress:     cfg.EmailFromAddress,
		FromName:        cfg.EmailFromName,
		Region:          cfg.SESRegion,
		AccessKeyID:     cfg.SESAccessKeyID,
		SecretAccessKey: cfg.SESSecretAccessKey,
	})
	renderer := email.NewTemplateRenderer()

	emailService := services.NewEmailService(mailer, renderer)
	eventService := services.NewEventService(eventRepo, userRepo, emailService, domain.DefaultWriteRetry, serviceTimeout)
	userService := services.NewUserService(userRepo, serviceTimeout)
	authService := services.NewAuthService(userRepo, hasher, tokenIssuer, cfg.JWTExpiry, serviceTimeout)
	contactListService := services.NewContactListService(contactListRepo, userRepo, serviceTimeout)

	eventController := controllers.NewEventController(logger, eventService)
	authController := controllers.NewAuthController(logger, authService)
	userController := controllers.NewUserController(logger, userService)
	contactListController := controllers.NewContactListController(logger, contactListService)

	mux := deliveryhttp.NewRouter(tokenVerifier, eventController, authController, userController, contactListController)
	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(eventRepo, userRepo, emailService, cfg.ReminderHour, logger)
	go func() {
		if err := sched.Start(ctx); err != nil {
			logger.Error("scheduler failed", "err", err)
		}
	}()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", "err", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
