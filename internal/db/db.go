package db

import (
	"fmt"
	"log"
	"time"

	"polls/internal/config"
	"polls/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Init opens the configured database, migrates it and seeds the demo poll.
// Any failure is fatal.
func Init(cfg config.Config) {
	var err error
	DB, err = Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Printf("Database connection established (%s)", cfg.DatabaseType)

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	if cfg.SeedDemo {
		if err := Seed(DB, time.Now()); err != nil {
			log.Printf("Failed to seed demo poll: %v", err)
		}
	}
}

// Open connects with the dialector matching kind and configures the pool.
func Open(kind, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch kind {
	case config.DatabasePostgres:
		dialector = postgres.Open(dsn)
	case config.DatabaseMySQL:
		dialector = mysql.Open(dsn)
	case config.DatabaseSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database type %q", kind)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}
	if kind == config.DatabaseSQLite {
		// SQLite allows a single writer; serialize through one connection.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return gdb, nil
}

func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.Question{},
		&models.Choice{},
	)
}

// Seed creates the demo poll when no question exists yet.
func Seed(gdb *gorm.DB, now time.Time) error {
	var count int64
	if err := gdb.Model(&models.Question{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Questions already seeded, skipping")
		return nil
	}

	question := models.Question{
		QuestionText: "What's your favorite web framework?",
		Description:  "Pick the one you would reach for **first** on a new project.",
		PubDate:      now,
		Choices: []models.Choice{
			{ChoiceText: "Gin"},
			{ChoiceText: "Echo"},
			{ChoiceText: "Chi"},
			{ChoiceText: "net/http only"},
		},
	}
	if err := gdb.Create(&question).Error; err != nil {
		return err
	}
	log.Println("Demo poll created successfully")
	return nil
}
