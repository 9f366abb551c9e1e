package models

import "time"

// Priorities accepted for a card, lowest first.
var Priorities = []string{"low", "medium", "high", "urgent"}

// DefaultPriority is assigned when a card is created without one.
const DefaultPriority = "medium"

// Card is a unit of work that lives in exactly one column.
type Card struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	ColumnID    uint       `gorm:"not null;index" json:"column_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Labels      StringList `gorm:"type:text" json:"labels"`
	DueDate     *string    `gorm:"size:10" json:"due_date"`
	Position    int        `gorm:"not null" json:"position"`
	Hours       float64    `json:"hours"`
	Assignee    string     `gorm:"size:128" json:"assignee"`
	Assignees   StringList `gorm:"type:text" json:"assignees"`
	Priority    string     `gorm:"size:16;default:medium" json:"priority"`
	SprintID    *uint      `gorm:"index" json:"sprint_id"`
	Progress    int        `json:"progress"`
	EpicID      *uint      `gorm:"index" json:"epic_id"`
	Source      string     `gorm:"size:255;index" json:"source,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ValidPriority reports whether p is one of Priorities.
func ValidPriority(p string) bool {
	for _, v := range Priorities {
		if v == p {
			return true
		}
	}
	return false
}
