package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ginrouter "user-account-service/internal/adapter/gin/router"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(deps ginrouter.Deps, ginMode, addr string, l *zap.Logger) *http.Server {
	if ginMode != "" {
		gin.SetMode(ginMode)
	}

	// Setup Gin router with all middleware and routes
	router := ginrouter.SetupRouter(deps, l)

	l.Info("Gin REST API configured", zap.String("address", addr))

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
