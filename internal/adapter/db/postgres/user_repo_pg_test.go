package postgres

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"user-account-service/internal/domain/user"
	pkgerrors "user-account-service/pkg/errors"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive across queries.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))

	return db
}

func setupRepo(t *testing.T) *UserRepoPG {
	return NewUserRepoPG(setupTestDB(t), zaptest.NewLogger(t))
}

func newUser(name, email string) *user.User {
	return &user.User{
		Name:      name,
		Email:     email,
		Password:  "secret1",
		Role:      user.RoleUser,
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestUserRepoPG_CreateAndGetByID(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	u := newUser("John Doe", "john@example.com")
	u.Address = "Calle 1"
	u.Phone = "555-0101"

	id, err := repo.Create(ctx, u)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "John Doe", got.Name)
	assert.Equal(t, "john@example.com", got.Email)
	assert.Equal(t, "secret1", got.Password)
	assert.Equal(t, user.RoleUser, got.Role)
	assert.Equal(t, "Calle 1", got.Address)
	assert.Equal(t, "555-0101", got.Phone)
	assert.True(t, u.CreatedAt.Equal(got.CreatedAt))
}

func TestUserRepoPG_CreateAssignsIncreasingIDs(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, newUser("One", "one@example.com"))
	require.NoError(t, err)

	preset := newUser("Two", "two@example.com")
	preset.ID = 999
	second, err := repo.Create(ctx, preset)
	require.NoError(t, err)

	assert.Greater(t, second, first)
	assert.NotEqual(t, int64(999), second)
}

func TestUserRepoPG_GetByID_NotFound(t *testing.T) {
	repo := setupRepo(t)

	got, err := repo.GetByID(context.Background(), 42)
	assert.Nil(t, got)

	var nf *pkgerrors.NotFoundError
	assert.True(t, stderrors.As(err, &nf))
}

func TestUserRepoPG_GetByEmail(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, newUser("Jane", "jane@example.com"))
	require.NoError(t, err)

	got, err := repo.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Jane", got.Name)

	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepoPG_EmailIsNotUniqueAtSchemaLevel(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, newUser("First", "dup@example.com"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newUser("Second", "dup@example.com"))
	require.NoError(t, err)

	got, err := repo.GetByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	assert.Equal(t, first, got.ID)
}

func TestUserRepoPG_UpdateKeepsCreatedAt(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	original := newUser("Old", "old@example.com")
	id, err := repo.Create(ctx, original)
	require.NoError(t, err)

	err = repo.Update(ctx, &user.User{
		ID:        id,
		Name:      "New",
		Email:     "old@example.com",
		Password:  "secret1",
		Role:      user.RoleAdmin,
		CreatedAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, user.RoleAdmin, got.Role)
	assert.True(t, original.CreatedAt.Equal(got.CreatedAt), "created_at must not change on update")
}

func TestUserRepoPG_Delete(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, newUser("Gone", "gone@example.com"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))

	_, err = repo.GetByID(ctx, id)
	assert.Error(t, err)

	// Deleting again is a silent no-op.
	assert.NoError(t, repo.Delete(ctx, id))
	assert.NoError(t, repo.Delete(ctx, 12345))
}

func TestUserRepoPG_ListOrderedByID(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	for _, u := range []*user.User{
		newUser("Charlie", "c@example.com"),
		newUser("Alice", "a@example.com"),
		newUser("Bob", "b@example.com"),
	} {
		_, err := repo.Create(ctx, u)
		require.NoError(t, err)
	}

	users, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "Charlie", users[0].Name)
	assert.Equal(t, "Alice", users[1].Name)
	assert.Equal(t, "Bob", users[2].Name)
	assert.Less(t, users[0].ID, users[1].ID)
	assert.Less(t, users[1].ID, users[2].ID)
}

func TestUserRepoPG_NilUser(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.Create(context.Background(), nil)
	assert.Error(t, err)
	assert.Error(t, repo.Update(context.Background(), nil))
}
