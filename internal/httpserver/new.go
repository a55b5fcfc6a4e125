package httpserver

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"staticman-gateway/internal/gateway"
	"staticman-gateway/internal/middleware"
	"staticman-gateway/pkg/log"
)

// WebhookHandler receives pull request deliveries from the git platforms.
type WebhookHandler interface {
	HandleGitHubWebhook(c *gin.Context)
	HandleGitLabWebhook(c *gin.Context)
}

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	// API gateway
	middleware middleware.Middleware
	gateway    *gateway.Router

	// Git webhooks
	webhookHandler WebhookHandler
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger         log.Logger
	Port           int
	Mode           string
	TrustedProxies []string
	Environment    string

	Middleware     middleware.Middleware
	Gateway        *gateway.Router
	WebhookHandler WebhookHandler
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:              logger,
		gin:            gin.New(),
		port:           cfg.Port,
		mode:           cfg.Mode,
		environment:    cfg.Environment,
		middleware:     cfg.Middleware,
		gateway:        cfg.Gateway,
		webhookHandler: cfg.WebhookHandler,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	// nil trusts no proxy, so ClientIP is the TCP peer address.
	if err := srv.gin.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	srv.mapHandlers()

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.gateway == nil {
		return errors.New("gateway is required")
	}
	return nil
}

// Handler exposes the engine, mainly for tests.
func (srv *HTTPServer) Handler() *gin.Engine {
	return srv.gin
}
