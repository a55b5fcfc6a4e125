package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"staticman-gateway/config"
	_ "staticman-gateway/docs" // Swagger docs
	"staticman-gateway/internal/bruteforce"
	"staticman-gateway/internal/completion/repository"
	ghRepo "staticman-gateway/internal/completion/repository/github"
	glRepo "staticman-gateway/internal/completion/repository/gitlab"
	completionUC "staticman-gateway/internal/completion/usecase"
	"staticman-gateway/internal/gateway"
	"staticman-gateway/internal/httpserver"
	"staticman-gateway/internal/middleware"
	"staticman-gateway/internal/model"
	"staticman-gateway/internal/notification"
	"staticman-gateway/internal/upstream"
	"staticman-gateway/internal/webhook"
	"staticman-gateway/pkg/github"
	"staticman-gateway/pkg/gitlab"
	"staticman-gateway/pkg/log"
	"staticman-gateway/pkg/telegram"
)

// @title       Staticman Gateway API
// @description Version-gated entry API and pull request completion webhooks for Staticman sites.
// @version     3
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Staticman gateway...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Brute-force guard
	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize brute-force store: %v", err)
	}
	defer closeStore()
	guard := bruteforce.NewGuard(store, bruteforce.Config{
		Limit:      cfg.BruteForce.Limit,
		Window:     cfg.BruteForce.Window,
		MaxEntries: cfg.BruteForce.MaxEntries,
	}, logger)
	logger.Infof(ctx, "Brute-force guard: backend=%s limit=%d window=%s", cfg.BruteForce.Backend, cfg.BruteForce.Limit, cfg.BruteForce.Window)

	// 4. Authoritative pull request sources
	githubClient, err := github.NewClient(ctx, github.Config{
		Token:         cfg.GitHub.Token,
		BaseURL:       cfg.GitHub.APIURL,
		RatePerSecond: cfg.Outbound.RatePerSec,
		Burst:         cfg.Outbound.Burst,
	})
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize GitHub client: %v", err)
	}
	repos := map[model.Service]repository.PullRequestRepository{
		model.ServiceGitHub: ghRepo.New(githubClient),
	}

	if cfg.GitLab.Token != "" {
		gitlabClient := gitlab.NewClient(gitlab.Config{
			Token:         cfg.GitLab.Token,
			BaseURL:       cfg.GitLab.BaseURL,
			RatePerSecond: cfg.Outbound.RatePerSec,
			Burst:         cfg.Outbound.Burst,
		}, nil)
		repos[model.ServiceGitLab] = glRepo.New(gitlabClient)
		logger.Infof(ctx, "GitLab merge request fetches enabled for %s", cfg.GitLab.BaseURL)
	} else {
		logger.Warn(ctx, "GitLab token not set: GitLab deliveries will be discarded as fetch-failed")
	}

	// 5. Notification channels
	channels := []notification.Notifier{notification.NewLogNotifier(logger)}
	if cfg.Notification.TelegramBotToken != "" && cfg.Notification.TelegramChatID != 0 {
		bot := telegram.NewBot(cfg.Notification.TelegramBotToken)
		channels = append(channels, notification.NewTelegramNotifier(bot, cfg.Notification.TelegramChatID))
		logger.Info(ctx, "Telegram notifications enabled")
	}
	notifier, err := notification.New(channels...)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize notifier: %v", err)
	}

	// 6. Completion detector & webhooks
	detector := completionUC.New(logger, repos, notifier, cfg.Webhook.FetchTimeout)
	webhookHandler := webhook.NewHandler(detector, webhook.Config{
		Security:       webhook.SecurityConfig{Secret: cfg.Webhook.Secret},
		ProcessTimeout: cfg.Webhook.ProcessTimeout,
		AckTimeout:     cfg.Webhook.AckTimeout,
	}, logger)
	if cfg.Webhook.Secret == "" {
		logger.Warn(ctx, "webhook.secret not set: deliveries are not authenticated")
	}

	// 7. Gated API
	proxy, err := upstream.New(logger, cfg.Upstream.URL)
	if err != nil {
		logger.Fatalf(ctx, "Invalid upstream.url: %v", err)
	}
	if !proxy.Configured() {
		logger.Warn(ctx, "upstream.url not set: admitted API requests answer 501")
	}
	router, err := gateway.New(logger, gateway.APIRoutes(proxy.Handle))
	if err != nil {
		logger.Fatalf(ctx, "Failed to build route table: %v", err)
	}

	// 8. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:         logger,
		Port:           cfg.HTTPServer.Port,
		Mode:           cfg.HTTPServer.Mode,
		TrustedProxies: cfg.HTTPServer.TrustedProxies,
		Environment:    cfg.Environment.Name,
		Middleware:     middleware.New(logger, guard),
		Gateway:        router,
		WebhookHandler: webhookHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 9. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Webhook.ProcessTimeout)
	defer cancel()
	if err := webhookHandler.Wait(drainCtx); err != nil {
		logger.Warnf(ctx, "Webhook detections still running at exit: %v", err)
	}

	logger.Info(ctx, "Server stopped gracefully")
}

// newStore builds the configured counter store. For Redis the connection is
// checked up front so a bad address fails at startup.
func newStore(ctx context.Context, cfg *config.Config) (bruteforce.Store, func(), error) {
	bfCfg := bruteforce.Config{
		Limit:      cfg.BruteForce.Limit,
		Window:     cfg.BruteForce.Window,
		MaxEntries: cfg.BruteForce.MaxEntries,
	}

	if cfg.BruteForce.Backend != bruteforce.BackendRedis {
		return bruteforce.NewMemoryStore(bfCfg), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	store := bruteforce.NewRedisStore(client, bfCfg)
	if err := store.Ping(ctx); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
	}
	return store, func() { client.Close() }, nil
}
