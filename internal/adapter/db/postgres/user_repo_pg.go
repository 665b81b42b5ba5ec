package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-account-service/internal/domain/user"
	pkgerrors "user-account-service/pkg/errors"
)

// UserRepoPG implements user.Repository using GORM. Despite the name it runs
// against any GORM dialect; production uses PostgreSQL.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
// Email carries no unique index: uniqueness is checked by registration only.
type UserSchema struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`    // Unique identifier with auto-increment
	Name      string    `gorm:"not null"`                    // Display name (required)
	Email     string    `gorm:"not null;index"`              // Login email (required)
	Password  string    `gorm:"not null"`                    // Stored credential (required)
	Role      string    `gorm:"not null"`                    // USER or ADMIN (required)
	CreatedAt time.Time `gorm:"column:created_at;<-:create"` // Written on insert only
	Address   string    `gorm:"column:address;size:255"`     // Optional postal address
	Phone     string    `gorm:"column:phone;size:20"`        // Optional phone number
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func toSchema(u *user.User) UserSchema {
	return UserSchema{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.Password,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		Address:   u.Address,
		Phone:     u.Phone,
	}
}

func toDomain(m *UserSchema) *user.User {
	return &user.User{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Password:  m.Password,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
		Address:   m.Address,
		Phone:     m.Phone,
	}
}

// Migrate creates or updates the users table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&UserSchema{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

// Create inserts a new user into the database.
func (r *UserRepoPG) Create(ctx context.Context, u *user.User) (int64, error) {
	if u == nil {
		return 0, errors.New("user cannot be nil")
	}

	model := toSchema(u)
	model.ID = 0

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// Update writes every mutable column of an existing user. created_at is
// excluded by the schema's create-only permission.
func (r *UserRepoPG) Update(ctx context.Context, u *user.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	model := toSchema(u)

	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		r.log.Error("failed to update user in db", zap.Error(err), zap.Int64("id", u.ID))
		return fmt.Errorf("failed to update user: %w", err)
	}

	r.log.Info("user updated in db", zap.Int64("id", model.ID))
	return nil
}

// Delete removes a user from the database by ID. A missing row is not an error.
func (r *UserRepoPG) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&UserSchema{}, id)
	if result.Error != nil {
		r.log.Error("failed to delete user in db", zap.Error(result.Error), zap.Int64("id", id))
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}

	r.log.Info("user deleted in db", zap.Int64("id", id), zap.Int64("rows", result.RowsAffected))
	return nil
}

// GetByID retrieves a user from the database by their unique ID.
func (r *UserRepoPG) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.Int64("id", id))
			return nil, pkgerrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", id))
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toDomain(&model), nil
}

// GetByEmail retrieves a user from the database by their email address.
// It returns (nil, nil) when no user has that email.
func (r *UserRepoPG) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return toDomain(&model), nil
}

// List retrieves all users ordered by ID.
func (r *UserRepoPG) List(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.User, len(models))
	for i := range models {
		users[i] = *toDomain(&models[i])
	}

	return users, nil
}
