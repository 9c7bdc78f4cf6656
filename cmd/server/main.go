// cmd/server is the EWM API server entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"explorewithme/config"
	_ "explorewithme/docs"
	"explorewithme/internal/adapters/auth"
	"explorewithme/internal/adapters/email"
	"explorewithme/internal/adapters/statsclient"
	httpdelivery "explorewithme/internal/delivery/http"
	"explorewithme/internal/delivery/http/controllers"
	"explorewithme/internal/delivery/http/middleware"
	"explorewithme/internal/repository/postgres"
	"explorewithme/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title Explore With Me API
// @version 1.0
// @description Event management platform: events, participation requests, categories, and compilations.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := config.NewLogger(cfg.Environment)

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

	userRepo := postgres.NewUserRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	requestRepo := postgres.NewRequestRepository(db)
	compilationRepo := postgres.NewCompilationRepository(db)
	commentRepo := postgres.NewCommentRepository(db)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())

	tokenIssuer := auth.NewJWTIssuer(cfg.StatsAuthSecret)
	statsClient := statsclient.NewHTTPClient(cfg.StatsURL, cfg.AppName, nil, tokenIssuer)

	userService := services.NewUserService(userRepo, serviceTimeout)
	categoryService := services.NewCategoryService(categoryRepo, serviceTimeout)
	eventService := services.NewEventService(eventRepo, requestRepo, userRepo, categoryRepo, statsClient, emailService, serviceTimeout)
	requestService := services.NewRequestService(requestRepo, userRepo, serviceTimeout)
	compilationService := services.NewCompilationService(compilationRepo, eventRepo, serviceTimeout)
	commentService := services.NewCommentService(commentRepo, eventRepo, requestRepo, userRepo, serviceTimeout)

	mux := httpdelivery.NewRouter(
		controllers.NewAdminUserController(logger, userService),
		controllers.NewCategoryController(logger, categoryService),
		controllers.NewEventController(logger, eventService, statsClient),
		controllers.NewRequestController(logger, requestService),
		controllers.NewCompilationController(logger, compilationService),
		controllers.NewCommentController(logger, commentService),
	)

	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.RequestID(handler)
	if len(cfg.CORSAllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
