package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	contactapp "github.com/datamaq/notifier/internal/application/contact"
	taskapp "github.com/datamaq/notifier/internal/application/task"
	telegramapp "github.com/datamaq/notifier/internal/application/telegram"
	"github.com/datamaq/notifier/internal/infrastructure/config"
	"github.com/datamaq/notifier/internal/infrastructure/logger"
	"github.com/datamaq/notifier/internal/infrastructure/mail"
	"github.com/datamaq/notifier/internal/infrastructure/state"
	"github.com/datamaq/notifier/internal/infrastructure/telegram"
	"github.com/datamaq/notifier/internal/interfaces/http/handler"
	"github.com/datamaq/notifier/internal/interfaces/http/middleware"
	"github.com/datamaq/notifier/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting notifier",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Wire infrastructure
	chatStore := state.NewFileChatStateStore(cfg.Telegram.StateFile, log)
	tgClient := telegram.NewClient(cfg.Telegram.Token, cfg.Telegram.APIBaseURL, log)

	// Wire application services
	webhookSvc := telegramapp.NewWebhookService(chatStore, cfg.Telegram.WebhookSecret, log, cfg.App.MaskSensitiveIDs)

	var fallback *int64
	if id, ok := cfg.Telegram.Fallback(); ok {
		fallback = &id
	}
	taskSvc := taskapp.NewService(chatStore, tgClient, log, cfg.Telegram.RepositoryName, fallback)

	// Configure gin
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsCfg))

	// Register routes
	r := router.NewRouter(engine)
	r.Register(handler.NewSystemHandler(cfg.App.Name))
	r.Register(handler.NewTelegramHandler(webhookSvc, cfg.Telegram.WebhookPath))
	r.Register(handler.NewTaskHandler(taskSvc))

	if cfg.Contact.Enabled {
		smtpGateway := mail.NewSMTPGateway(
			cfg.SMTP.Host, cfg.SMTP.Port,
			cfg.SMTP.User, cfg.SMTP.Pass, cfg.SMTP.TLS,
			cfg.SMTP.From, cfg.SMTP.DefaultRecipient,
			log,
		)
		contactSvc := contactapp.NewService(smtpGateway, cfg.Contact.HoneypotField, log)
		limiter := middleware.NewRateLimiter(cfg.Contact.RateLimitMax, cfg.Contact.RateLimitWindow)
		r.Register(handler.NewContactHandler(contactSvc, middleware.RateLimit(limiter)))
		log.Info("Contact intake enabled",
			zap.String("smtp_host", cfg.SMTP.Host),
			zap.Int("rate_limit_max", cfg.Contact.RateLimitMax),
		)
	}

	r.Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Registering the webhook talks to the Telegram API, not the local
	// server, so failures only log and the service keeps accepting updates.
	if cfg.Telegram.AutoSetWebhook {
		go registerWebhook(cfg, tgClient, log)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Unregister the webhook first so Telegram stops delivering to a URL
	// that is about to go away. Best-effort, like registration.
	if cfg.Telegram.AutoSetWebhook {
		if err := tgClient.DeleteWebhook(ctx); err != nil {
			log.Warn("Webhook unregistration failed", zap.Error(err))
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// registerWebhook points the bot at the public webhook URL and logs the
// resulting webhook state.
func registerWebhook(cfg *config.Config, client *telegram.Client, log *zap.Logger) {
	webhookURL := cfg.Telegram.WebhookURL()
	if webhookURL == "" {
		log.Warn("Webhook auto-registration skipped: telegram.public_base_url is not set")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := client.SetWebhook(ctx, webhookURL, cfg.Telegram.WebhookSecret, cfg.Telegram.DropPendingUpdates); err != nil {
		log.Error("Webhook registration failed", zap.Error(err))
		return
	}

	info, err := client.GetWebhookInfo(ctx)
	if err != nil {
		log.Warn("Webhook registered but info lookup failed", zap.Error(err))
		return
	}
	log.Info("Webhook registered",
		zap.String("url", info.URL),
		zap.Int("pending_updates", info.PendingUpdates),
	)
}
