package service

import (
	"testing"
	"time"

	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/internal/app/repository"
	"github.com/minjk/moamall-backend/internal/db"
	"github.com/minjk/moamall-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

type authFixture struct {
	db        *gorm.DB
	adminRepo repository.AdminUserRepository
	auth      AuthService
}

func setupAuthTest(t *testing.T) *authFixture {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	adminRepo := repository.NewAdminUserRepository(testDB)
	return &authFixture{
		db:        testDB,
		adminRepo: adminRepo,
		auth:      NewAuthService(adminRepo, testJWTSecret, 15*time.Minute, 24*time.Hour),
	}
}

func TestCreateAdmin(t *testing.T) {
	auth := setupAuthTest(t).auth

	user, err := auth.CreateAdmin("owner@example.com", "s3cret-pw", "Owner", model.RoleAdmin)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, model.RoleAdmin, user.Role)
	// Stored hash must not leak the plain credential.
	assert.NotEqual(t, "s3cret-pw", user.PasswordHash)
	assert.True(t, util.VerifyPassword(user.PasswordHash, "s3cret-pw"))

	_, err = auth.CreateAdmin("owner@example.com", "another-pw", "Owner Again", model.RoleEditor)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLogin(t *testing.T) {
	auth := setupAuthTest(t).auth

	_, err := auth.CreateAdmin("editor@example.com", "correct-horse", "Editor", model.RoleEditor)
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, tokens, err := auth.Login("editor@example.com", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, "editor@example.com", user.Email)
		require.NotNil(t, tokens)

		claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, string(model.RoleEditor), claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := auth.Login("editor@example.com", "battery-staple")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := auth.Login("nobody@example.com", "correct-horse")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefresh(t *testing.T) {
	f := setupAuthTest(t)
	auth, adminRepo := f.auth, f.adminRepo

	user, err := auth.CreateAdmin("admin@example.com", "refresh-me", "Admin", model.RoleAdmin)
	require.NoError(t, err)
	_, tokens, err := auth.Login("admin@example.com", "refresh-me")
	require.NoError(t, err)

	t.Run("valid refresh token", func(t *testing.T) {
		fresh, err := auth.Refresh(tokens.RefreshToken)
		require.NoError(t, err)
		claims, err := util.ValidateToken(fresh.AccessToken, testJWTSecret)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
	})

	t.Run("role change is reflected", func(t *testing.T) {
		stored, err := adminRepo.FindByID(user.ID)
		require.NoError(t, err)
		stored.Role = model.RoleEditor
		require.NoError(t, adminRepo.Update(stored))

		fresh, err := auth.Refresh(tokens.RefreshToken)
		require.NoError(t, err)
		claims, err := util.ValidateToken(fresh.AccessToken, testJWTSecret)
		require.NoError(t, err)
		assert.Equal(t, string(model.RoleEditor), claims.Role)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := auth.Refresh("not-a-jwt")
		assert.ErrorIs(t, err, util.ErrInvalidToken)
	})

	t.Run("deleted account", func(t *testing.T) {
		require.NoError(t, f.db.Delete(&model.AdminUser{}, user.ID).Error)
		_, err := auth.Refresh(tokens.RefreshToken)
		assert.ErrorIs(t, err, ErrAdminNotFound)
	})
}
