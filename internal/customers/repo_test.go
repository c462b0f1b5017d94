package customers

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCustomersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	roles := `
CREATE TABLE IF NOT EXISTS roles (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`
	customers := `
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  fullname TEXT NOT NULL,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  phone TEXT,
  is_email_verified INTEGER NOT NULL DEFAULT 0,
  is_phone_verified INTEGER NOT NULL DEFAULT 0,
  role_id TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(roles).Error)
	require.NoError(t, db.Exec(customers).Error)
	return db
}

func TestCreateAndFindCustomer(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateCustomerDTO{
		FullName:     "Jane Doe",
		Username:     "janedoe",
		Email:        "jane@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	byEmail, err := repo.FindByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, byEmail.ID)

	byUsername, err := repo.FindByUsername(ctx, "janedoe")
	require.NoError(t, err)
	require.Equal(t, created.ID, byUsername.ID)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", byID.FullName)
}

func TestFindByEmailNotFound(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestUpdateProfile(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateCustomerDTO{
		FullName:     "Jane Doe",
		Username:     "janedoe2",
		Email:        "jane2@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	name := "Jane Q. Doe"
	phone := "+15550001111"
	updated, err := repo.UpdateProfile(ctx, created.ID, UpdateProfileDTO{
		FullName: &name,
		Phone:    &phone,
	})
	require.NoError(t, err)
	require.Equal(t, name, updated.FullName)
	require.NotNil(t, updated.Phone)
	require.Equal(t, phone, *updated.Phone)
}

func TestUpdatePassword(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateCustomerDTO{
		FullName:     "Jane Doe",
		Username:     "janedoe3",
		Email:        "jane3@example.com",
		PasswordHash: "old-hash",
	})
	require.NoError(t, err)

	require.NoError(t, repo.UpdatePassword(ctx, created.ID, "new-hash"))

	reloaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", reloaded.PasswordHash)
}

func TestFindRoleBySlug(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Exec(
		`INSERT INTO roles (id, name, slug) VALUES (?, 'Customer', 'customer')`,
		uuid.NewString(),
	).Error)

	role, err := repo.FindRoleBySlug(ctx, "customer")
	require.NoError(t, err)
	require.Equal(t, "customer", role.Slug)

	_, err = repo.FindRoleBySlug(ctx, "admin")
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
