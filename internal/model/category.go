package model

import (
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Category groups products. Slug is the stable lookup key for category pages.
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Slug        string `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	Description string `json:"description"`
	Timestamps
}

// BeforeCreate derives the slug from the name when none was supplied.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	return nil
}
