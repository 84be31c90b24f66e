package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"microblog/cmd/app"
	"microblog/internal/config"
	handlers "microblog/internal/handler"
	"microblog/internal/middleware"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()

	if cfg.JWTSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY не установлен в .env файле")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Не удалось запустить приложение: %v", err)
	}
	defer application.Close()

	logger := application.Logger

	h, err := handlers.NewHandlers(application.Services, application.PageCache, application.DB, cfg, logger)
	if err != nil {
		logger.Error("не удалось загрузить шаблоны", slog.Any("error", err))
		os.Exit(1)
	}

	proxies, err := middleware.ParseTrustedProxies(cfg.RateLimit.TrustedProxies)
	if err != nil {
		logger.Error("некорректный TRUSTED_PROXIES", slog.Any("error", err))
		os.Exit(1)
	}

	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	go limiter.RunCleanup(ctx, time.Minute, 10*time.Minute)

	handlerChain := middleware.Chain(
		h.Routes(),
		middleware.SecurityHeaders,
		middleware.RateLimit(limiter, proxies),
		middleware.Logging(logger),
		middleware.Recover(logger),
		middleware.RequestID,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           handlerChain,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Starting the server
	go func() {
		logger.Info("сервер запущен",
			slog.String("addr", server.Addr),
			slog.String("database", cfg.DB.DbNAME),
			slog.Bool("page_cache", application.PageCache.Enabled()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ошибка запуска сервера", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("останавливаем сервер")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("ошибка остановки сервера", slog.Any("error", err))
	}
}
