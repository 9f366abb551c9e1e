// Package board assembles the aggregate board view and its statistics.
package board

import (
	"fmt"

	"github.com/tiXor-code/kanban-board/internal/models"
	"gorm.io/gorm"
)

// ColumnWithCards is a column and its cards in position order.
type ColumnWithCards struct {
	models.Column
	Cards []models.Card `json:"cards"`
}

// Board is the full board payload served to the UI.
type Board struct {
	Columns []ColumnWithCards `json:"columns"`
	Sprints []models.Sprint   `json:"sprints"`
	Epics   []models.Epic     `json:"epics"`
}

// Load fetches columns, cards, sprints and epics and merges cards into their
// columns in memory.
func Load(db *gorm.DB) (*Board, error) {
	var columns []models.Column
	if err := db.Order("position ASC, id ASC").Find(&columns).Error; err != nil {
		return nil, fmt.Errorf("board: load columns: %w", err)
	}
	var cards []models.Card
	if err := db.Order("position ASC, id ASC").Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("board: load cards: %w", err)
	}
	sprints := []models.Sprint{}
	if err := db.Order("start_date DESC, id DESC").Find(&sprints).Error; err != nil {
		return nil, fmt.Errorf("board: load sprints: %w", err)
	}
	epics := []models.Epic{}
	if err := db.Order("id ASC").Find(&epics).Error; err != nil {
		return nil, fmt.Errorf("board: load epics: %w", err)
	}

	byColumn := make(map[uint][]models.Card, len(columns))
	for _, c := range cards {
		byColumn[c.ColumnID] = append(byColumn[c.ColumnID], c)
	}

	b := &Board{Columns: make([]ColumnWithCards, 0, len(columns)), Sprints: sprints, Epics: epics}
	for _, col := range columns {
		colCards := byColumn[col.ID]
		if colCards == nil {
			colCards = []models.Card{}
		}
		b.Columns = append(b.Columns, ColumnWithCards{Column: col, Cards: colCards})
	}
	return b, nil
}
