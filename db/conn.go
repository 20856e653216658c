// Package db sets up the record store connection
package db

import (
	"fmt"

	"secondbrain/auth-api/internal/model"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens the configured database and migrates the schema. Unique and
// secondary indexes on email, provider_id and verification_token come
// from the model tags, lookups never scan
func New() (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch driver := viper.GetString("db.driver"); driver {
	case "sqlite":
		dialector = sqlite.Open(viper.GetString("db.dsn"))
	case "postgres":
		dialector = postgres.Open(viper.GetString("db.dsn"))
	default:
		return nil, fmt.Errorf("invalid db driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		// Maps unique index violations to gorm.ErrDuplicatedKey so the
		// duplicate-email race collapses into a normal error path
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	err = db.AutoMigrate(model.User{}, model.Session{}, model.Notification{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
