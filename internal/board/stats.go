package board

import (
	"fmt"

	"github.com/tiXor-code/kanban-board/internal/models"
	"gorm.io/gorm"
)

// ColumnCount is the number of cards in one column.
type ColumnCount struct {
	ColumnID uint   `json:"column_id"`
	Title    string `json:"title"`
	Count    int64  `json:"count"`
}

// Stats summarizes the board.
type Stats struct {
	TotalCards  int64            `json:"total_cards"`
	ByColumn    []ColumnCount    `json:"by_column"`
	ByPriority  map[string]int64 `json:"by_priority"`
	TotalHours  float64          `json:"total_hours"`
	AvgProgress float64          `json:"avg_progress"`
	Overdue     int64            `json:"overdue"`
}

// ComputeStats aggregates card counts, hours and progress. A card is overdue
// when its due date is before today (YYYY-MM-DD).
func ComputeStats(db *gorm.DB, today string) (*Stats, error) {
	if !models.ValidDate(today) {
		return nil, fmt.Errorf("board: %w: stats date %q", models.ErrInvalid, today)
	}

	s := &Stats{ByColumn: []ColumnCount{}, ByPriority: map[string]int64{}}
	for _, p := range models.Priorities {
		s.ByPriority[p] = 0
	}

	var totals struct {
		Total    int64
		Hours    float64
		Progress float64
	}
	if err := db.Model(&models.Card{}).
		Select("COUNT(*) AS total, COALESCE(SUM(hours), 0) AS hours, COALESCE(AVG(progress), 0) AS progress").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("board: stats totals: %w", err)
	}
	s.TotalCards = totals.Total
	s.TotalHours = totals.Hours
	s.AvgProgress = totals.Progress

	if err := db.Table("columns AS col").
		Select("col.id AS column_id, col.title, COUNT(c.id) AS count").
		Joins("LEFT JOIN cards c ON c.column_id = col.id").
		Group("col.id, col.title, col.position").
		Order("col.position ASC").
		Scan(&s.ByColumn).Error; err != nil {
		return nil, fmt.Errorf("board: stats by column: %w", err)
	}
	if s.ByColumn == nil {
		s.ByColumn = []ColumnCount{}
	}

	var prio []struct {
		Priority string
		Count    int64
	}
	if err := db.Model(&models.Card{}).
		Select("priority, COUNT(*) AS count").
		Group("priority").
		Scan(&prio).Error; err != nil {
		return nil, fmt.Errorf("board: stats by priority: %w", err)
	}
	for _, p := range prio {
		s.ByPriority[p.Priority] = p.Count
	}

	if err := db.Model(&models.Card{}).
		Where("due_date IS NOT NULL AND due_date <> '' AND due_date < ?", today).
		Count(&s.Overdue).Error; err != nil {
		return nil, fmt.Errorf("board: stats overdue: %w", err)
	}
	return s, nil
}
