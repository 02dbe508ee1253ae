package database

import (
	"fmt"
	"log"
	"os"

	"storefront-app/internal/domain/apps"
	"storefront-app/internal/domain/customers"
	"storefront-app/internal/domain/products"
	"storefront-app/internal/domain/subscriptions"
	"storefront-app/internal/domain/templates"
	"storefront-app/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("❌ DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}

	DB = db

	if err := DB.AutoMigrate(
		// identity
		&users.User{},
		&users.VerificationToken{},

		// storefront
		&templates.AppTemplate{},
		&apps.App{},
		&products.Product{},

		// billing
		&customers.Customer{},
		&subscriptions.Subscription{},
	); err != nil {
		log.Fatal("❌ AutoMigrate error:", err)
	}

	fmt.Println("✅ Connected and migrated successfully")
}
