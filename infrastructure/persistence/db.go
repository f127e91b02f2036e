// Package persistence provides database storage implementations.
package persistence

import (
	"github.com/sagohq/sago/internal/database"
)

// AutoMigrate runs GORM auto migration for all models.
func AutoMigrate(db database.Database) error {
	return db.GORM().AutoMigrate(
		&CompanyModel{},
		&FounderModel{},
		&UserModel{},
		&ScrapeRoundModel{},
		&RunModel{},
	)
}
