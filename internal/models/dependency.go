package models

import "time"

// Dependency is a directed edge: CardID is blocked by DependsOnID.
type Dependency struct {
	CardID      uint      `gorm:"primaryKey" json:"card_id"`
	DependsOnID uint      `gorm:"primaryKey;index" json:"depends_on_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName keeps dependency edges in card_dependencies.
func (Dependency) TableName() string { return "card_dependencies" }
