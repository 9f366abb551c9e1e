package models

import "time"

// Epic is an optional grouping label applied across cards.
type Epic struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Color       string    `gorm:"size:16" json:"color"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"size:16;default:open" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
