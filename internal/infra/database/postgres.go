package database

import (
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/totegamma/itemtag/internal/infra/database/models"
)

func newGormLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             300 * time.Millisecond, // Slow SQL threshold
			LogLevel:                  logger.Warn,            // Log level
			IgnoreRecordNotFoundError: true,                   // Ignore ErrRecordNotFound error for logger
			Colorful:                  true,                   // Enable color
		},
	)
}

func NewPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(),
	})
	return db, err
}

// NewSQLite opens a file (or ":memory:") database through the pure Go driver.
func NewSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(),
	})
	return db, err
}

// MigrateSQL creates the items, tags and item_tags tables. User payloads are
// stored as JSON and never migrated.
func MigrateSQL(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Item{},
		&models.Tag{},
		&models.ItemTag{},
	)
}
