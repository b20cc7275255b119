package database

import (
	"activitiesui/internal/shared/session"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&session.Record{},
	)
}
