package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"user-account-service/api"
	"user-account-service/internal/adapter/gin/handler"
	"user-account-service/internal/adapter/gin/middleware"
	"user-account-service/pkg/logger"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Deps groups what the router mounts.
type Deps struct {
	UserHandler    *handler.UserHandler
	AuthHandler    *handler.AuthHandler
	Sessions       middleware.SessionResolver
	CookieName     string
	AllowedOrigins []string
	HealthChecks   map[string]HealthCheck
	ServiceName    string
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(deps Deps, log *zap.Logger) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(logger.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Metrics())
	if len(deps.AllowedOrigins) > 0 {
		router.Use(middleware.CORS(deps.AllowedOrigins))
	}

	router.GET("/health", healthHandler(deps))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/openapi.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", api.OpenAPI)
	})
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/openapi.json"))))

	// Every /api route is reachable without a session; handlers and the
	// admin gate decide per operation.
	apiGroup := router.Group("/api")
	{
		authRoutes := apiGroup.Group("/auth")
		{
			authRoutes.POST("/login", deps.AuthHandler.Login)
			authRoutes.GET("/check-session", deps.AuthHandler.CheckSession)
			authRoutes.POST("/logout", deps.AuthHandler.Logout)
			authRoutes.POST("/register", deps.AuthHandler.Register)
			authRoutes.POST("/forgot-password", deps.AuthHandler.ForgotPassword)
		}

		users := apiGroup.Group("/users")
		{
			users.GET("", deps.UserHandler.ListUsers)
			users.POST("", deps.UserHandler.CreateUser)
			users.GET("/me", deps.UserHandler.Me)
			users.GET("/:id", deps.UserHandler.GetUser)
			users.PUT("/:id", deps.UserHandler.UpdateUser)
			users.DELETE("/:id",
				middleware.RequireAdmin(deps.Sessions, deps.CookieName, log),
				deps.UserHandler.DeleteUser,
			)
		}
	}

	return router
}

func healthHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := make(map[string]string, len(deps.HealthChecks))
		for name, check := range deps.HealthChecks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				checks[name] = err.Error()
				continue
			}
			checks[name] = "ok"
		}

		state := "healthy"
		if status != http.StatusOK {
			state = "unhealthy"
		}
		c.JSON(status, gin.H{
			"status":  state,
			"service": deps.ServiceName,
			"checks":  checks,
		})
	}
}
