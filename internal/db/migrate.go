package db

import (
	"github.com/shopspring/decimal"
	"github.com/sportaccessories/storefront/internal/app/model"
	"github.com/sportaccessories/storefront/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table owned by the application.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	return MigrateDB(DB)
}

func MigrateDB(conn *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// SeedProducts inserts the default catalog when the products table is empty.
func SeedProducts(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Products already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	products := DefaultProducts()
	if err := conn.CreateInBatches(&products, 50).Error; err != nil {
		logger.Error("Failed to seed products", err)
		return err
	}

	logger.Info("Products seeded successfully", map[string]interface{}{
		"total_products": len(products),
	})
	return nil
}

func DefaultProducts() []model.Product {
	price := decimal.RequireFromString
	return []model.Product{
		{Name: "Pro Match Football", Description: "FIFA quality size 5 match ball with thermally bonded panels.", Price: price("39.99"), Category: "football", Brand: "Strikeline", ImageURL: "/images/football.jpg"},
		{Name: "Carbon Tennis Racket", Description: "Lightweight carbon frame racket, 300g, 100 sq in head.", Price: price("129.00"), Category: "tennis", Brand: "Acehold", ImageURL: "/images/tennis-racket.jpg"},
		{Name: "Tennis Balls (4 pack)", Description: "Pressurised all-court tennis balls.", Price: price("8.49"), Category: "tennis", Brand: "Acehold", ImageURL: "/images/tennis-balls.jpg"},
		{Name: "Indoor Basketball", Description: "Composite leather size 7 ball with deep channels for grip.", Price: price("34.50"), Category: "basketball", Brand: "Hoopcraft", ImageURL: "/images/basketball.jpg"},
		{Name: "Running Hydration Belt", Description: "Bounce-free belt with two 250ml flasks and a zip pocket.", Price: price("24.95"), Category: "running", Brand: "Stridelab", ImageURL: "/images/hydration-belt.jpg"},
		{Name: "Yoga Mat 6mm", Description: "Non-slip TPE mat with alignment lines.", Price: price("29.99"), Category: "fitness", Brand: "Flowform", ImageURL: "/images/yoga-mat.jpg"},
		{Name: "Adjustable Dumbbell 24kg", Description: "Dial-select dumbbell replacing fifteen sets of weights.", Price: price("199.00"), Category: "fitness", Brand: "Ironloop", ImageURL: "/images/dumbbell.jpg"},
		{Name: "Cycling Gloves", Description: "Half-finger gel padded gloves with breathable mesh.", Price: price("19.99"), Category: "cycling", Brand: "Spokewise", ImageURL: "/images/cycling-gloves.jpg"},
		{Name: "Swim Goggles", Description: "Anti-fog mirrored lenses with UV protection.", Price: price("15.00"), Category: "swimming", Brand: "Lanefast", ImageURL: "/images/goggles.jpg"},
		{Name: "Shin Guards", Description: "Lightweight shin guards with ankle protection.", Price: price("17.25"), Category: "football", Brand: "Strikeline", ImageURL: "/images/shin-guards.jpg"},
	}
}
