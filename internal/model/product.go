package model

import (
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product belongs to exactly one Category; deleting the category cascades to
// its products. Price is fixed-point decimal, never a float.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CategoryID  uint            `gorm:"not null;index:idx_products_category_active,priority:1" json:"category_id"`
	Category    Category        `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category"`
	Name        string          `gorm:"size:255;index;not null" json:"name"`
	Slug        string          `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);index;not null" json:"price"`
	Stock       uint            `gorm:"default:0" json:"stock"`
	// No DB-side default: the service layer owns the active default, so
	// an explicit false survives the INSERT instead of being dropped as
	// a zero value.
	IsActive bool `gorm:"index:idx_products_category_active,priority:2" json:"is_active"`
	Timestamps
}

// BeforeCreate derives the slug from the name when none was supplied.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.Slug == "" {
		p.Slug = slug.Make(p.Name)
	}
	return nil
}
