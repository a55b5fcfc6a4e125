package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrMissingGitHubToken = errors.New("config: github.token is required to fetch pull requests")
	ErrInvalidBackend     = errors.New("config: bruteforce.backend must be memory or redis")
	ErrMissingRedisAddr   = errors.New("config: redis.addr is required for the redis backend")
	ErrInvalidTimeout     = errors.New("config: invalid webhook timeout")
)

// GitHub and GitLab treat a delivery as failed when the response takes longer.
const originDeliveryTimeout = 10 * time.Second

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Origin platforms
	GitHub GitHubConfig
	GitLab GitLabConfig

	// Gateway
	Webhook    WebhookConfig
	BruteForce BruteForceConfig
	Redis      RedisConfig
	Upstream   UpstreamConfig
	Outbound   OutboundConfig

	// Notifications
	Notification NotificationConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port           int
	Mode           string
	TrustedProxies []string // CIDRs allowed to set X-Forwarded-For; empty trusts none
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type GitHubConfig struct {
	Token  string
	APIURL string // empty means api.github.com
}

type GitLabConfig struct {
	Token   string // empty disables GitLab merge request fetches
	BaseURL string
}

type WebhookConfig struct {
	Secret         string
	FetchTimeout   time.Duration
	ProcessTimeout time.Duration
	AckTimeout     time.Duration // must stay under the origin's 10s delivery timeout
}

type BruteForceConfig struct {
	Backend    string
	Limit      int64
	Window     time.Duration
	MaxEntries int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type UpstreamConfig struct {
	URL string
}

// OutboundConfig throttles calls to the GitHub and GitLab APIs.
type OutboundConfig struct {
	RatePerSec float64
	Burst      int
}

type NotificationConfig struct {
	TelegramBotToken string
	TelegramChatID   int64
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.HTTPServer.TrustedProxies = viper.GetStringSlice("http_server.trusted_proxies")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Origin platforms
	cfg.GitHub.Token = viper.GetString("github.token")
	cfg.GitHub.APIURL = viper.GetString("github.api_url")
	cfg.GitLab.Token = viper.GetString("gitlab.token")
	cfg.GitLab.BaseURL = viper.GetString("gitlab.base_url")

	// Gateway
	cfg.Webhook.Secret = viper.GetString("webhook.secret")
	cfg.Webhook.FetchTimeout = viper.GetDuration("webhook.fetch_timeout")
	cfg.Webhook.ProcessTimeout = viper.GetDuration("webhook.process_timeout")
	cfg.Webhook.AckTimeout = viper.GetDuration("webhook.ack_timeout")

	cfg.BruteForce.Backend = strings.ToLower(viper.GetString("bruteforce.backend"))
	cfg.BruteForce.Limit = viper.GetInt64("bruteforce.limit")
	cfg.BruteForce.Window = viper.GetDuration("bruteforce.window")
	cfg.BruteForce.MaxEntries = viper.GetInt("bruteforce.max_entries")

	cfg.Redis.Addr = viper.GetString("redis.addr")
	cfg.Redis.Password = viper.GetString("redis.password")
	cfg.Redis.DB = viper.GetInt("redis.db")

	cfg.Upstream.URL = viper.GetString("upstream.url")

	cfg.Outbound.RatePerSec = viper.GetFloat64("outbound.rate_per_sec")
	cfg.Outbound.Burst = viper.GetInt("outbound.burst")

	// Notifications
	cfg.Notification.TelegramBotToken = viper.GetString("notification.telegram_bot_token")
	cfg.Notification.TelegramChatID = viper.GetInt64("notification.telegram_chat_id")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.GitHub.Token == "" {
		return ErrMissingGitHubToken
	}

	switch cfg.BruteForce.Backend {
	case "memory":
	case "redis":
		if cfg.Redis.Addr == "" {
			return ErrMissingRedisAddr
		}
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidBackend, cfg.BruteForce.Backend)
	}

	if cfg.Webhook.FetchTimeout <= 0 || cfg.Webhook.ProcessTimeout <= 0 {
		return fmt.Errorf("%w: fetch and process timeouts must be positive", ErrInvalidTimeout)
	}
	if cfg.Webhook.AckTimeout <= 0 || cfg.Webhook.AckTimeout >= originDeliveryTimeout {
		return fmt.Errorf("%w: webhook.ack_timeout must be between 0 and %s", ErrInvalidTimeout, originDeliveryTimeout)
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("gitlab.base_url", "https://gitlab.com")

	viper.SetDefault("webhook.fetch_timeout", "10s")
	viper.SetDefault("webhook.process_timeout", "30s")
	viper.SetDefault("webhook.ack_timeout", "8s")

	viper.SetDefault("bruteforce.backend", "memory")
	viper.SetDefault("bruteforce.limit", 60)
	viper.SetDefault("bruteforce.window", "1m")
	viper.SetDefault("bruteforce.max_entries", 10000)

	viper.SetDefault("redis.db", 0)

	viper.SetDefault("outbound.rate_per_sec", 10)
	viper.SetDefault("outbound.burst", 20)
}
