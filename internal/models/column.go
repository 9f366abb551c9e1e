package models

import "time"

// Column is an ordered bucket of cards on the board.
type Column struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"size:128;not null" json:"title"`
	Color     string    `gorm:"size:16" json:"color"`
	Position  int       `gorm:"not null;index" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}
