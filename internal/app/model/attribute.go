package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AttributeType string

const (
	AttributeTypeText        AttributeType = "text"
	AttributeTypeNumber      AttributeType = "number"
	AttributeTypeSelect      AttributeType = "select"
	AttributeTypeMultiselect AttributeType = "multiselect"
	AttributeTypeColor       AttributeType = "color"
	AttributeTypeSize        AttributeType = "size"
	AttributeTypeDate        AttributeType = "date"
	AttributeTypeBoolean     AttributeType = "boolean"
)

// IsValid reports whether the type is one of the supported attribute types.
func (t AttributeType) IsValid() bool {
	switch t {
	case AttributeTypeText, AttributeTypeNumber, AttributeTypeSelect,
		AttributeTypeMultiselect, AttributeTypeColor, AttributeTypeSize,
		AttributeTypeDate, AttributeTypeBoolean:
		return true
	}
	return false
}

// IsEnumerated reports whether values of this type come from an option list.
func (t AttributeType) IsEnumerated() bool {
	switch t {
	case AttributeTypeSelect, AttributeTypeMultiselect, AttributeTypeColor, AttributeTypeSize:
		return true
	}
	return false
}

// GlobalAttribute is the catalog-wide attribute definition. Category and
// product tiers attach to it and may override display fields, never redefine
// the type.
type GlobalAttribute struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	Name            string         `gorm:"size:100;not null;uniqueIndex:uq_global_attributes_name" json:"name"`
	DisplayName     string         `gorm:"size:255;not null" json:"display_name"`
	Type            AttributeType  `gorm:"type:varchar(20);not null" json:"type"`
	IsFilterable    bool           `gorm:"default:false" json:"is_filterable"`
	IsSwatch        bool           `gorm:"default:false" json:"is_swatch"`
	IsRequired      bool           `gorm:"default:false" json:"is_required"`
	IsVariant       bool           `gorm:"default:false" json:"is_variant"`
	ValidationRules datatypes.JSON `gorm:"type:json" json:"validation_rules,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Options []GlobalAttributeOption `gorm:"foreignKey:AttributeID" json:"options,omitempty"`
}

func (GlobalAttribute) TableName() string {
	return "global_attributes"
}

// GlobalAttributeOption is one enumerated value of a global attribute.
// Global options carry no price adjustment; pricing only enters at the
// category and product tiers.
type GlobalAttributeOption struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	AttributeID  uint           `gorm:"not null;uniqueIndex:uq_global_attribute_options_value,priority:1" json:"attribute_id"`
	Value        string         `gorm:"size:255;not null;uniqueIndex:uq_global_attribute_options_value,priority:2" json:"value"`
	DisplayValue string         `gorm:"size:255;not null" json:"display_value"`
	SortOrder    int            `gorm:"default:0" json:"sort_order"`
	Metadata     datatypes.JSON `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	Attribute GlobalAttribute `gorm:"foreignKey:AttributeID" json:"-"`
}

func (GlobalAttributeOption) TableName() string {
	return "global_attribute_options"
}
