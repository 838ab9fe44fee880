package database

import (
	"log"

	"stockroom/internal/config"
	"stockroom/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	logLevel := logger.Silent
	if cfg.DBLogging {
		logLevel = logger.Info
	}

	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	log.Println("database connected, migration complete")
}

// Migrate creates or updates the tables this service owns. The test setup
// runs it against an in-memory SQLite database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Ingredient{},
		&models.ChangeLog{},
	)
}
