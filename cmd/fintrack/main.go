package main

import (
	"context"
	"errors"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/advice"
	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/http"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.New(log.DefaultConfig()).Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	logger := log.New(log.Config{Level: cfg.SlogLevel(), Component: log.ComponentApp})
	log.SetDefault(logger)

	result, err := backend.Create(mustBackendConfig(cfg, logger), logger)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", log.FieldError, err)
			}
		}
	}()

	// AMQP is optional for the API: without it entry events are simply
	// not published.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, entry events disabled", log.FieldError, err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	var generator advice.Generator
	if gen, err := advice.NewOpenAIGenerator(advice.Config{
		APIKey:  cfg.AdviceAPIKey,
		BaseURL: cfg.AdviceBaseURL,
		Model:   cfg.AdviceModel,
		Timeout: cfg.AdviceTimeout,
	}); err != nil {
		logger.Info("Advice generation disabled - no ADVICE_API_KEY provided")
	} else {
		generator = gen
		logger.Info("Advice generator initialized", "model", cfg.AdviceModel)
	}

	summaries := services.NewSummaryService(result.Store, cfg.Location())
	entries := services.NewEntryService(result.Store, amqpClient, summaries, logger)
	advisor := services.NewAdviceService(result.Store, generator, logger)

	seedDemoUser(result.Store, cfg, logger)

	srv := http.NewServer(":"+cfg.Port, http.Deps{
		Store:     result.Store,
		Entries:   entries,
		Summaries: summaries,
		Advisor:   advisor,
		Logger:    logger,
	})

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting fintrack server", "port", cfg.Port, log.FieldBackend, cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

func mustBackendConfig(cfg *config.Config, logger *log.Logger) backend.Config {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	return backendCfg
}

// seedDemoUser makes sure the demo account exists so the single-user
// API has someone to attribute data to.
func seedDemoUser(st store.Store, cfg *config.Config, logger *log.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := st.CreateUser(ctx, core.UserInput{
		Username: cfg.DemoUsername,
		Password: cfg.DemoPassword,
	})
	switch {
	case err == nil:
		logger.Info("Demo user created", log.FieldUserID, user.ID, "username", user.Username)
	case errors.Is(err, store.ErrUsernameTaken):
		// Already seeded on a previous run.
	default:
		logger.Error("Failed to seed demo user", log.FieldError, err)
		os.Exit(1)
	}
}
