package cached

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-account-service/internal/adapter/cache"
	"user-account-service/internal/adapter/metrics"
	domain "user-account-service/internal/domain/user"
)

// CachedUserRepository implements domain.Repository with caching support.
// It wraps a persistent repository (DB) and a cache implementation.
// Only lookups by ID are cached; email lookups always reach the database so
// login and registration never see a stale record.
type CachedUserRepository struct {
	dbRepo domain.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewCachedUserRepository creates a new instance of CachedUserRepository.
// A nil cache disables caching.
func NewCachedUserRepository(dbRepo domain.Repository, cache cache.UserCache, log *zap.Logger) *CachedUserRepository {
	return &CachedUserRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// Create delegates to the DB repository.
func (r *CachedUserRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	return r.dbRepo.Create(ctx, u)
}

// GetByID retrieves a user by ID using Cache-Aside pattern.
func (r *CachedUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if r.cache != nil {
		cachedUser, err := r.cache.Get(ctx, id)
		switch {
		case err != nil:
			metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
			r.log.Warn("cache get error, falling back to database", zap.Int64("id", id), zap.Error(err))
		case cachedUser != nil:
			metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
			r.log.Debug("user retrieved from cache", zap.Int64("id", id))
			return cachedUser, nil
		default:
			metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede
	key := fmt.Sprintf("user:%d", id)
	result, err, _ := r.group.Do(key, func() (any, error) {
		u, err := r.dbRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if r.cache != nil {
			if err := r.cache.Set(ctx, u); err != nil {
				r.log.Warn("failed to cache user", zap.Int64("id", id), zap.Error(err))
			}
		}

		return u, nil
	})
	if err != nil {
		return nil, err
	}

	// Callers may mutate the record; never hand out the shared singleflight value.
	u := *result.(*domain.User)
	return &u, nil
}

// GetByEmail delegates to the DB repository.
func (r *CachedUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.dbRepo.GetByEmail(ctx, email)
}

// Update updates the user in DB and invalidates the cache.
func (r *CachedUserRepository) Update(ctx context.Context, u *domain.User) error {
	if err := r.dbRepo.Update(ctx, u); err != nil {
		return err
	}

	r.invalidate(ctx, u.ID, "update")
	return nil
}

// Delete deletes the user from DB and invalidates the cache.
func (r *CachedUserRepository) Delete(ctx context.Context, id int64) error {
	if err := r.dbRepo.Delete(ctx, id); err != nil {
		return err
	}

	r.invalidate(ctx, id, "delete")
	return nil
}

// List delegates to the DB repository.
func (r *CachedUserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.dbRepo.List(ctx)
}

func (r *CachedUserRepository) invalidate(ctx context.Context, id int64, op string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.Warn("failed to invalidate cache", zap.String("op", op), zap.Int64("id", id), zap.Error(err))
	}
}
