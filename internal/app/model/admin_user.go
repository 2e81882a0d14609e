package model

import "time"

type AdminRole string

const (
	RoleAdmin  AdminRole = "admin"
	RoleEditor AdminRole = "editor"
)

// AdminUser is a back-office account. The catalog API has no shopper
// accounts; only admins authenticate.
type AdminUser struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex:uq_admin_users_email;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Role         AdminRole `gorm:"size:20;not null;default:editor" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}
