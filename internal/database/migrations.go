package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/mtakagi/body-tracker-api/internal/models"
)

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	logrus.Info("Running database migrations...")
	err := db.AutoMigrate(
		&models.User{},
		&models.Measurement{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logrus.Info("Database migrations completed")
	return nil
}

// EnforceUsernameCollation pins a binary collation on users.username under
// MySQL. The server default utf8mb4 collations compare case-insensitively,
// which would make "alice" and "Alice" collide in the unique index and match
// each other at login. Postgres and SQLite already compare bytes, so the
// column is left alone there.
func EnforceUsernameCollation(db *gorm.DB) error {
	if db.Dialector.Name() != "mysql" {
		return nil
	}

	var collation string
	err := db.Raw(
		"SELECT collation_name FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = 'users' AND column_name = 'username'",
	).Scan(&collation).Error
	if err != nil {
		return fmt.Errorf("failed to read username collation: %w", err)
	}
	if collation == "utf8mb4_bin" {
		return nil
	}

	sql := "ALTER TABLE users MODIFY username VARCHAR(80) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL"
	if err := db.Exec(sql).Error; err != nil {
		return fmt.Errorf("failed to enforce username collation: %w", err)
	}
	logrus.Info("Pinned binary collation on users.username")
	return nil
}

// AddIndexes creates indexes that AutoMigrate does not derive from model
// tags. Listing is always filtered by owner and ordered by timestamp, so the
// composite index carries every trend query.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"measurements", "idx_measurements_user_timestamp", "user_id, timestamp"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		logrus.Infof("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
