// cmd/research-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"uxr-engine/internal/common/config"
	"uxr-engine/internal/common/llm"
	"uxr-engine/internal/common/logger"
	"uxr-engine/internal/common/observability"
	"uxr-engine/internal/common/store"
	"uxr-engine/internal/httpapi"
	"uxr-engine/internal/orchestrator"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting research server...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init provider client ---
	var base llm.Completer
	if cfg.Provider.BaseURL != "" {
		base = llm.NewHTTPCompleter(cfg.Provider.BaseURL, cfg.Provider.APIKey,
			cfg.Provider.Model, cfg.Provider.Temperature, cfg.Provider.MaxTokens)
		zapLog.Info("Using OpenAI-compatible HTTP provider", zap.String("baseURL", cfg.Provider.BaseURL))
	} else {
		var gemini *llm.GeminiClient
		err = retryWithBackoff(func() error {
			var err error
			gemini, err = llm.NewGeminiClient(ctx, cfg.Provider.APIKey, cfg.Provider.Model,
				cfg.Provider.Temperature, cfg.Provider.MaxTokens)
			return err
		}, 3, 2*time.Second, zapLog, "Gemini client initialization")
		if err != nil {
			zapLog.Fatal("provider client initialization failed", zap.Error(err))
		}
		defer gemini.Close()
		base = gemini
		zapLog.Info("Using Gemini provider", zap.String("model", cfg.Provider.Model))
	}
	completer := llm.NewRetryingCompleter(base, cfg.Provider.CallTimeout(),
		cfg.Provider.MaxRetries, cfg.Provider.Backoff(), log)

	// --- Init result store ---
	var resultStore store.ResultStore
	if cfg.Redis.Enabled {
		redisStore := store.NewRedis(cfg.Redis)
		err = retryWithBackoff(func() error {
			return redisStore.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis connection failed", zap.Error(err))
		}
		defer redisStore.Close()
		resultStore = redisStore
		zapLog.Info("Using Redis result store", zap.String("address", cfg.Redis.Address))
	} else {
		resultStore = store.NewMemory()
		zapLog.Info("Using in-memory result store")
	}

	// --- Wire pipeline ---
	orch := orchestrator.New(
		orchestrator.NewPrimary(cfg, completer, log),
		orchestrator.NewFallback(completer, log),
		obs, log,
	)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	httpapi.NewHandler(orch, resultStore, log).Register(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("server shutdown failed", zap.Error(err))
	}
	zapLog.Info("Server stopped")
}
