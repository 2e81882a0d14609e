package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ProductAttributeCombination is an explicit price override for one exact
// selection of variant values. CombinationHash is the canonical
// "attributeID:value|..." key; when a row matches, its adjustment replaces
// the per-option sum entirely.
type ProductAttributeCombination struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	ProductID       uint            `gorm:"not null;uniqueIndex:uq_product_combinations_hash,priority:1" json:"product_id"`
	CombinationHash string          `gorm:"size:512;not null;uniqueIndex:uq_product_combinations_hash,priority:2" json:"combination_hash"`
	PriceAdjustment decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"price_adjustment"`
	SKU             string          `gorm:"size:100" json:"sku,omitempty"`
	StockQuantity   int             `gorm:"default:0" json:"stock_quantity"`
	IsActive        bool            `gorm:"default:true" json:"is_active"`
	// Attributes holds a displayName->displayValue map for admin listings;
	// the hash alone stays authoritative for matching.
	Attributes datatypes.JSON `gorm:"type:json" json:"attributes,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (ProductAttributeCombination) TableName() string {
	return "product_attribute_combinations"
}
