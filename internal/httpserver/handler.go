package httpserver

import (
	"context"

	"staticman-gateway/internal/model"
	"staticman-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (srv HTTPServer) mapHandlers() {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerDomainRoutes()
}

func (srv HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Logger(), gin.CustomRecovery(srv.recoverPanic))
	srv.gin.Use(srv.middleware.CORS())

	ctx := context.Background()
	if srv.environment == string(model.EnvironmentProduction) {
		srv.l.Infof(ctx, "CORS mode: production")
	} else {
		srv.l.Infof(ctx, "CORS mode: %s", srv.environment)
	}
}

func (srv HTTPServer) recoverPanic(c *gin.Context, recovered any) {
	srv.l.Errorf(c.Request.Context(), "httpserver.recoverPanic: %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
	response.InternalError(c)
}

func (srv HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/", srv.home)
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers the webhook endpoints and the gated API.
func (srv HTTPServer) registerDomainRoutes() {
	ctx := context.Background()

	if srv.webhookHandler != nil {
		srv.gin.POST("/v1/webhook", srv.webhookHandler.HandleGitHubWebhook)
		srv.gin.POST("/v1/webhook/gitlab", srv.webhookHandler.HandleGitLabWebhook)
		srv.l.Infof(ctx, "Webhook routes registered at POST /v1/webhook and POST /v1/webhook/gitlab")
	} else {
		srv.l.Infof(ctx, "Webhook handler not configured, skipping webhook routes")
	}

	srv.gateway.Register(srv.gin, srv.middleware.BruteForce())
}
