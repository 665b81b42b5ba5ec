package di

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-account-service/cmd/api/infrastructure"
	"user-account-service/internal/adapter/cache"
	"user-account-service/internal/adapter/db/postgres"
	ginhandler "user-account-service/internal/adapter/gin/handler"
	"user-account-service/internal/adapter/gin/router"
	"user-account-service/internal/adapter/repository/cached"
	sessionstore "user-account-service/internal/adapter/session"
	"user-account-service/internal/config"
	"user-account-service/internal/usecase/auth"
	"user-account-service/internal/usecase/user"
	redisclient "user-account-service/pkg/redis"
	"user-account-service/pkg/security"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client
	UserUC      user.UserUsecase
	AuthUC      auth.AuthUsecase
	UserHandler *ginhandler.UserHandler
	AuthHandler *ginhandler.AuthHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Initialize database
	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize Redis client
	rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
	if err != nil {
		_ = infrastructure.CloseDatabase(db)
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	// Initialize repository; a zero cache TTL leaves it uncached
	dbRepo := postgres.NewUserRepoPG(db, l)
	var userCache cache.UserCache
	if cfg.Redis.CacheTTL > 0 {
		userCache = cache.NewRedisUserCache(rdb.Client, cfg.Redis.CacheTTLDuration(), l)
	}
	repo := cached.NewCachedUserRepository(dbRepo, userCache, l)

	sessions := sessionstore.NewRedisStore(rdb.Client, cfg.Session.TTL(), l)
	passwords := security.NewPasswordHasher(cfg.Auth.PasswordHashing, cfg.Auth.BcryptCost)
	if !cfg.Auth.PasswordHashing {
		l.Warn("password hashing disabled, credentials are stored as submitted")
	}

	// Initialize use cases
	userUC := user.New(repo, passwords, l)
	authUC := auth.New(repo, sessions, passwords, l)

	// Initialize Gin handlers
	cookie := ginhandler.CookieConfig{
		Name:   cfg.Session.CookieName,
		TTL:    cfg.Session.TTL(),
		Secure: cfg.Session.CookieSecure,
	}

	return &Container{
		Config:      cfg,
		Logger:      l,
		DB:          db,
		RedisClient: rdb,
		UserUC:      userUC,
		AuthUC:      authUC,
		UserHandler: ginhandler.NewUserHandler(userUC, authUC, cookie, l),
		AuthHandler: ginhandler.NewAuthHandler(authUC, cookie, l),
	}, nil
}

// RouterDeps returns what the HTTP router needs from the container.
func (c *Container) RouterDeps() router.Deps {
	return router.Deps{
		UserHandler:    c.UserHandler,
		AuthHandler:    c.AuthHandler,
		Sessions:       c.AuthUC,
		CookieName:     c.Config.Session.CookieName,
		AllowedOrigins: c.Config.CORS.AllowedOrigins,
		ServiceName:    c.Config.Logger.ServiceName,
		HealthChecks: map[string]router.HealthCheck{
			"database": func(ctx context.Context) error { return infrastructure.PingDatabase(ctx, c.DB) },
			"redis":    c.RedisClient.Ping,
		},
	}
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
