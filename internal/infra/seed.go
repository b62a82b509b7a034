package infra

import (
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"nexusmart.com/internal/model"
)

// SeedDemoCatalog populates an empty catalog with a small demo data set.
// No-op when any category already exists.
func SeedDemoCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("Seed: Empty catalog, loading demo data...")

	categories := []model.Category{
		{Name: "Electronics", Description: "Phones, laptops and accessories"},
		{Name: "Books", Description: "Fiction and non-fiction"},
		{Name: "Home & Kitchen", Description: "Appliances and cookware"},
	}
	if err := db.Create(&categories).Error; err != nil {
		return err
	}

	products := []model.Product{
		{CategoryID: categories[0].ID, Name: "Wireless Earbuds", Description: "Bluetooth 5.3 earbuds with charging case", Price: decimal.NewFromFloat(49.99), Stock: 120, IsActive: true},
		{CategoryID: categories[0].ID, Name: "Laptop Pro 14", Description: "14 inch ultrabook, 16GB RAM", Price: decimal.NewFromFloat(1299.00), Stock: 15, IsActive: true},
		{CategoryID: categories[0].ID, Name: "USB-C Charger 65W", Description: "GaN fast charger", Price: decimal.NewFromFloat(29.50), Stock: 300, IsActive: true},
		{CategoryID: categories[1].ID, Name: "The Pragmatic Shopper", Description: "A field guide to online retail", Price: decimal.NewFromFloat(18.00), Stock: 80, IsActive: true},
		{CategoryID: categories[2].ID, Name: "Cast Iron Skillet", Description: "Pre-seasoned 12 inch skillet", Price: decimal.NewFromFloat(34.95), Stock: 45, IsActive: true},
	}
	if err := db.Create(&products).Error; err != nil {
		return err
	}

	log.Printf("Seed: Created %d categories, %d products", len(categories), len(products))
	return nil
}
