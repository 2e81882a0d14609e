package service

import (
	"errors"
	"time"

	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/internal/app/repository"
	"github.com/minjk/moamall-backend/pkg/logger"
	"github.com/minjk/moamall-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
	ErrAdminNotFound      = errors.New("admin user not found")
)

// AuthService issues and refreshes tokens for the admin API.
type AuthService interface {
	Login(email, password string) (*model.AdminUser, *util.TokenPair, error)
	Refresh(refreshToken string) (*util.TokenPair, error)
	CreateAdmin(email, password, name string, role model.AdminRole) (*model.AdminUser, error)
	GetAdmin(id uint) (*model.AdminUser, error)
}

type authService struct {
	adminRepo     repository.AdminUserRepository
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(adminRepo repository.AdminUserRepository, jwtSecret string, accessExpiry, refreshExpiry time.Duration) AuthService {
	return &authService{
		adminRepo:     adminRepo,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *authService) Login(email, password string) (*model.AdminUser, *util.TokenPair, error) {
	user, err := s.adminRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := util.GenerateTokenPair(user.ID, user.Email, string(user.Role), s.jwtSecret, s.accessExpiry, s.refreshExpiry)
	if err != nil {
		logger.Error("Failed to generate token pair", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	return user, tokens, nil
}

func (s *authService) Refresh(refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	// Re-read the user so revoked accounts and role changes take effect.
	user, err := s.adminRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}

	return util.GenerateTokenPair(user.ID, user.Email, string(user.Role), s.jwtSecret, s.accessExpiry, s.refreshExpiry)
}

func (s *authService) CreateAdmin(email, password, name string, role model.AdminRole) (*model.AdminUser, error) {
	if _, err := s.adminRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.AdminUser{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
	}
	if err := s.adminRepo.Create(user); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	logger.Info("Admin user created", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
	})
	return user, nil
}

func (s *authService) GetAdmin(id uint) (*model.AdminUser, error) {
	user, err := s.adminRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return user, nil
}
