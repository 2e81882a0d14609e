package repository

import (
	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/pkg/logger"
	"gorm.io/gorm"
)

type AdminUserRepository interface {
	Create(user *model.AdminUser) error
	FindByID(id uint) (*model.AdminUser, error)
	FindByEmail(email string) (*model.AdminUser, error)
	Update(user *model.AdminUser) error
}

type adminUserRepository struct {
	db *gorm.DB
}

func NewAdminUserRepository(db *gorm.DB) AdminUserRepository {
	return &adminUserRepository{db: db}
}

func (r *adminUserRepository) Create(user *model.AdminUser) error {
	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create admin user", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}
	return nil
}

func (r *adminUserRepository) FindByID(id uint) (*model.AdminUser, error) {
	var user model.AdminUser
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *adminUserRepository) FindByEmail(email string) (*model.AdminUser, error) {
	var user model.AdminUser
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *adminUserRepository) Update(user *model.AdminUser) error {
	return r.db.Save(user).Error
}
