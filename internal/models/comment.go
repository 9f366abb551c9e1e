package models

import "time"

// Comment is an append-only note on a card.
type Comment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CardID    uint      `gorm:"not null;index" json:"card_id"`
	Author    string    `gorm:"size:128" json:"author"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps comments in card_comments.
func (Comment) TableName() string { return "card_comments" }
