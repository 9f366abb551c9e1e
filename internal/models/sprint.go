package models

import "time"

// Sprint statuses.
const (
	SprintPlanned = "planned"
	SprintActive  = "active"
	SprintClosed  = "closed"
)

// Sprint is a time-boxed subset of cards. At most one sprint is active.
type Sprint struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Goal      string    `gorm:"type:text" json:"goal"`
	StartDate *string   `gorm:"size:10" json:"start_date"`
	EndDate   *string   `gorm:"size:10" json:"end_date"`
	Status    string    `gorm:"size:16;default:planned;index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidSprintStatus reports whether s is a known sprint status.
func ValidSprintStatus(s string) bool {
	return s == SprintPlanned || s == SprintActive || s == SprintClosed
}
