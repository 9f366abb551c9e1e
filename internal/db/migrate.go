package db

import (
	"fmt"

	"github.com/tiXor-code/kanban-board/internal/config"
	"github.com/tiXor-code/kanban-board/internal/models"
	"gorm.io/gorm"
)

// AllModels returns every GORM model the board owns, in creation order.
func AllModels() []interface{} {
	return []interface{}{
		&models.Column{},
		&models.Card{},
		&models.Sprint{},
		&models.Epic{},
		&models.Comment{},
		&models.Dependency{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// DropAll drops every table the board owns. Tables are dropped in reverse
// creation order.
func DropAll(db *gorm.DB) error {
	all := AllModels()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(all[i]); err != nil {
			return fmt.Errorf("db: drop %T: %w", all[i], err)
		}
	}
	return nil
}

// SeedColumns creates the configured columns when the board has none. It
// returns how many columns were created.
func SeedColumns(db *gorm.DB, seeds []config.SeedColumn) (int, error) {
	var count int64
	if err := db.Model(&models.Column{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("db: count columns: %w", err)
	}
	if count > 0 || len(seeds) == 0 {
		return 0, nil
	}

	cols := make([]models.Column, len(seeds))
	for i, s := range seeds {
		cols[i] = models.Column{Title: s.Title, Color: s.Color, Position: i}
	}
	if err := db.Create(&cols).Error; err != nil {
		return 0, fmt.Errorf("db: seed columns: %w", err)
	}
	return len(cols), nil
}
