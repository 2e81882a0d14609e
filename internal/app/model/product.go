package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	CategoryID  uint            `gorm:"index;not null" json:"category_id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	SKU         string          `gorm:"size:100;uniqueIndex:uq_products_sku" json:"sku"`
	Description string          `gorm:"type:text" json:"description"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"base_price"`
	ImageURL    string          `json:"image_url"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	Category   Category           `gorm:"foreignKey:CategoryID" json:"-"`
	Attributes []ProductAttribute `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
