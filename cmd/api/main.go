package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/webvantage/chatbot-platform/cmd/mainconfig"
	"github.com/webvantage/chatbot-platform/internal/api/router"
	"github.com/webvantage/chatbot-platform/internal/appointments"
	"github.com/webvantage/chatbot-platform/internal/chat"
	"github.com/webvantage/chatbot-platform/internal/classifier"
	appconfig "github.com/webvantage/chatbot-platform/internal/config"
	"github.com/webvantage/chatbot-platform/internal/notify"
	"github.com/webvantage/chatbot-platform/internal/observability/metrics"
	"github.com/webvantage/chatbot-platform/internal/schedule"
	"github.com/webvantage/chatbot-platform/internal/users"
	"github.com/webvantage/chatbot-platform/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting chatbot-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	registry := prometheus.NewRegistry()
	chatMetrics := metrics.NewChatMetrics(registry)
	apptMetrics := metrics.NewAppointmentMetrics(registry)

	// Session context store: Redis when configured, in-memory otherwise.
	var contexts chat.ContextStore
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Error("redis unavailable", "error", err, "addr", cfg.RedisAddr)
			os.Exit(1)
		}
		contexts = chat.NewRedisContextStore(client, cfg.SessionTTL)
		logger.Info("using redis session store", "addr", cfg.RedisAddr)
	} else {
		contexts = chat.NewMemoryContextStore(cfg.SessionTTL)
		logger.Info("using in-memory session store")
	}

	// Storage: Postgres when configured, in-memory otherwise.
	var (
		transcripts chat.TranscriptStore
		apptRepo    appointments.Repository
		userStore   users.Store
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("postgres unavailable", "error", err)
			os.Exit(1)
		}
		transcripts = chat.NewPostgresTranscriptStore(pool)
		apptRepo = appointments.NewPostgresRepository(pool)
		userStore = users.NewPostgresStore(pool)
		logger.Info("using postgres storage")
	} else {
		apptRepo = appointments.NewInMemoryRepository()
		userStore = users.NewInMemoryStore()
		logger.Warn("DATABASE_URL not set; appointments are not persisted")
	}

	emailSender := buildEmailSender(ctx, cfg, logger)
	notifier := notify.NewService(emailSender, cfg.AgencyName, cfg.NotifyAddresses, apptMetrics, logger)

	chatService := chat.NewService(contexts, classifier.New(), chat.NewComposer(cfg.AgencyName), transcripts, userStore, chatMetrics, logger)
	chatHandler := chat.NewHandler(chatService, transcripts, logger)

	validator := schedule.NewValidator(cfg.BusinessTimezone)
	apptService := appointments.NewService(apptRepo, validator, notifier, userStore, cfg.ConflictCheck, apptMetrics, logger)
	apptHandler := appointments.NewHandler(apptService, logger)

	r := router.New(&router.Config{
		Logger:              logger,
		ChatHandler:         chatHandler,
		AppointmentsHandler: apptHandler,
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		AdminAuthSecret:     cfg.AdminJWTSecret,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		ChatRateLimit:       2,
		ChatRateBurst:       10,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildEmailSender picks the provider from config. An unconfigured or
// unknown provider falls back to the logging stub so bookings still work.
func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config, falling back to stub email", "error", err)
			return notify.NewStubEmailSender(logger)
		}
		sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger)
		if sender == nil {
			return notify.NewStubEmailSender(logger)
		}
		return sender
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger)
		if sender == nil {
			logger.Warn("SENDGRID_API_KEY not set, falling back to stub email")
			return notify.NewStubEmailSender(logger)
		}
		return sender
	default:
		return notify.NewStubEmailSender(logger)
	}
}
