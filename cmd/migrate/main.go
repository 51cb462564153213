package main

import (
	"log"
	"os"

	"github.com/best200-lab/juristmindchat/internal/model"
	"github.com/best200-lab/juristmindchat/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	db, err := database.NewGormDB(database.GormConfig{
		Host:     getenv("DB_HOST", "localhost"),
		Port:     getenv("DB_PORT", "5432"),
		User:     getenv("DB_USER", "postgres"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   getenv("DB_NAME", "juristmindchat"),
		SSLMode:  getenv("DB_SSLMODE", "disable"),
	})
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Starting Authoritative GORM Migration...")

	// 2. Pre-Migration: Extensions (Things GORM AutoMigrate doesn't do)
	color.Cyan("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Yellow("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 3. AutoMigrate All Models
	color.Cyan("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.User{},
		&model.ChatSession{},
		&model.ChatMessage{},
		&model.MessageFeedback{},
		&model.CaseNote{},
		&model.JobPost{},
		&model.SubscriptionPlan{},
		&model.UserSubscription{},
		&model.BillingAddress{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	// 4. Seed Plans (idempotent, keyed by slug)
	color.Cyan("Step 3: Seeding subscription plans...")

	plans := []model.SubscriptionPlan{
		{
			Name:           "Free",
			Slug:           "free",
			Tagline:        "Try the legal assistant",
			Price:          0,
			BillingPeriod:  "monthly",
			ChatDailyLimit: 5,
			MaxCaseNotes:   3,
			SortOrder:      1,
		},
		{
			Name:            "Professional",
			Slug:            "professional",
			Tagline:         "For active practitioners",
			Price:           149000,
			TaxRate:         0.11,
			BillingPeriod:   "monthly",
			ChatDailyLimit:  100,
			MaxCaseNotes:    100,
			JobBoardEnabled: true,
			IsMostPopular:   true,
			SortOrder:       2,
		},
		{
			Name:            "Firm",
			Slug:            "firm",
			Tagline:         "Unlimited research for teams",
			Price:           499000,
			TaxRate:         0.11,
			BillingPeriod:   "monthly",
			ChatDailyLimit:  -1,
			MaxCaseNotes:    -1,
			JobBoardEnabled: true,
			SortOrder:       3,
		},
	}

	for _, plan := range plans {
		var existing model.SubscriptionPlan
		err := db.Where("slug = ?", plan.Slug).First(&existing).Error
		if err == nil {
			continue
		}
		if err := db.Create(&plan).Error; err != nil {
			color.Yellow("Warn: Failed to seed plan %s: %v", plan.Slug, err)
		}
	}

	color.Green("✅ Success: Database migration completed successfully via GORM.")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
