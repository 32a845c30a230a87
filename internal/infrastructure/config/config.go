package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Telegram TelegramConfig
	SMTP     SMTPConfig
	Contact  ContactConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name             string
	Env              string
	Port             string
	MaskSensitiveIDs bool
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	CORSAllowOrigins []string
	TrustedProxies   []string
}

// TelegramConfig holds the messaging-platform settings consumed by the
// notification pipeline.
type TelegramConfig struct {
	Token              string
	APIBaseURL         string
	WebhookSecret      string
	WebhookPath        string
	PublicBaseURL      string
	AutoSetWebhook     bool
	DropPendingUpdates bool
	FallbackChatID     int64 // 0 means no fallback configured
	RepositoryName     string
	StateFile          string
}

// SMTPConfig holds outbound mail settings for the contact subsystem
type SMTPConfig struct {
	Host             string
	Port             int
	User             string
	Pass             string
	TLS              bool
	From             string
	DefaultRecipient string
}

// ContactConfig holds contact-form intake settings
type ContactConfig struct {
	Enabled         bool
	HoneypotField   string
	RateLimitWindow time.Duration
	RateLimitMax    int
}

// Load loads configuration from config.toml and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with NOTIFIER_ prefix (e.g. NOTIFIER_TELEGRAM_TOKEN)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("NOTIFIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name:             v.GetString("app.name"),
			Env:              strings.ToLower(v.GetString("app.env")),
			Port:             v.GetString("app.port"),
			MaskSensitiveIDs: v.GetBool("app.mask_sensitive_ids"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Telegram: TelegramConfig{
			Token:              strings.TrimSpace(v.GetString("telegram.token")),
			APIBaseURL:         strings.TrimRight(v.GetString("telegram.api_base_url"), "/"),
			WebhookSecret:      strings.TrimSpace(v.GetString("telegram.webhook_secret")),
			WebhookPath:        normalizeWebhookPath(v.GetString("telegram.webhook_path")),
			PublicBaseURL:      strings.TrimRight(strings.TrimSpace(v.GetString("telegram.public_base_url")), "/"),
			AutoSetWebhook:     v.GetBool("telegram.auto_set_webhook"),
			DropPendingUpdates: v.GetBool("telegram.drop_pending_updates"),
			FallbackChatID:     v.GetInt64("telegram.fallback_chat_id"),
			RepositoryName:     strings.TrimSpace(v.GetString("telegram.repository_name")),
			StateFile:          v.GetString("telegram.state_file"),
		},
		SMTP: SMTPConfig{
			Host:             strings.TrimSpace(v.GetString("smtp.host")),
			Port:             v.GetInt("smtp.port"),
			User:             strings.TrimSpace(v.GetString("smtp.user")),
			Pass:             v.GetString("smtp.pass"),
			TLS:              v.GetBool("smtp.tls"),
			From:             strings.TrimSpace(v.GetString("smtp.from")),
			DefaultRecipient: strings.TrimSpace(v.GetString("smtp.default_recipient")),
		},
		Contact: ContactConfig{
			Enabled:         v.GetBool("contact.enabled"),
			HoneypotField:   strings.TrimSpace(v.GetString("contact.honeypot_field")),
			RateLimitWindow: v.GetDuration("contact.rate_limit_window"),
			RateLimitMax:    v.GetInt("contact.rate_limit_max"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "telegram-task-notifier")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8000")
	v.SetDefault("app.mask_sensitive_ids", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("http.read_timeout", "15s")
	v.SetDefault("http.write_timeout", "30s")
	v.SetDefault("http.idle_timeout", "60s")
	v.SetDefault("http.cors_allow_origins", []string{})
	v.SetDefault("http.trusted_proxies", []string{})

	v.SetDefault("telegram.api_base_url", "https://api.telegram.org")
	v.SetDefault("telegram.webhook_path", "/telegram/webhook")
	v.SetDefault("telegram.auto_set_webhook", true)
	v.SetDefault("telegram.drop_pending_updates", true)
	v.SetDefault("telegram.repository_name", "telegram-task-notifier")
	v.SetDefault("telegram.state_file", ".last_chat_id")

	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.tls", true)

	v.SetDefault("contact.enabled", false)
	v.SetDefault("contact.honeypot_field", "website")
	v.SetDefault("contact.rate_limit_window", "60s")
	v.SetDefault("contact.rate_limit_max", 20)
}

// Validate enforces settings that must hold before the server starts
func (c *Config) Validate() error {
	switch c.App.Env {
	case "development", "staging", "production", "test":
	default:
		return fmt.Errorf("app.env invalid: %s", c.App.Env)
	}

	if c.App.Env == "production" {
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("CORS wildcard is not allowed in production")
			}
		}
	}

	if (c.SMTP.User == "") != (c.SMTP.Pass == "") {
		return fmt.Errorf("smtp.user and smtp.pass must be both set or both empty")
	}

	if c.Contact.Enabled {
		var missing []string
		if c.SMTP.Host == "" {
			missing = append(missing, "smtp.host")
		}
		if c.SMTP.Port <= 0 {
			missing = append(missing, "smtp.port")
		}
		if c.SMTP.From == "" {
			missing = append(missing, "smtp.from")
		}
		if c.SMTP.DefaultRecipient == "" {
			missing = append(missing, "smtp.default_recipient")
		}
		if c.Contact.HoneypotField == "" {
			missing = append(missing, "contact.honeypot_field")
		}
		if c.Contact.RateLimitWindow <= 0 {
			missing = append(missing, "contact.rate_limit_window")
		}
		if c.Contact.RateLimitMax <= 0 {
			missing = append(missing, "contact.rate_limit_max")
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing or invalid critical settings: %s", strings.Join(missing, ", "))
		}
	}

	return nil
}

// Fallback returns the configured fallback chat id, if any
func (c *TelegramConfig) Fallback() (int64, bool) {
	if c.FallbackChatID == 0 {
		return 0, false
	}
	return c.FallbackChatID, true
}

// WebhookURL joins the public base URL and webhook path; empty when no public
// base URL is configured.
func (c *TelegramConfig) WebhookURL() string {
	if c.PublicBaseURL == "" {
		return ""
	}
	return c.PublicBaseURL + c.WebhookPath
}

func normalizeWebhookPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/telegram/webhook"
	}
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}
