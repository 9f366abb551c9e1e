package card

import (
	"fmt"
	"time"

	"github.com/tiXor-code/kanban-board/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DepCard is the summary of a card on the other end of a dependency edge.
type DepCard struct {
	ID       uint      `json:"id"`
	Title    string    `json:"title"`
	ColumnID uint      `json:"column_id"`
	Priority string    `json:"priority"`
	Progress int       `json:"progress"`
	LinkedAt time.Time `json:"created_at"` // when the edge was recorded
}

// DepList holds both directions of a card's dependencies.
type DepList struct {
	BlockedBy []DepCard `json:"blocked_by"`
	Blocks    []DepCard `json:"blocks"`
}

// AddDep records that cardID is blocked by dependsOnID. Inserting an edge
// that already exists is a no-op. There is no cycle detection.
func AddDep(db *gorm.DB, cardID, dependsOnID uint) error {
	if dependsOnID == 0 {
		return fmt.Errorf("dep: %w: depends_on_id is required", models.ErrInvalid)
	}
	if cardID == dependsOnID {
		return fmt.Errorf("dep: %w: card %d cannot depend on itself", models.ErrInvalid, cardID)
	}
	for _, id := range []uint{cardID, dependsOnID} {
		if _, err := Get(db, id); err != nil {
			return err
		}
	}

	dep := models.Dependency{CardID: cardID, DependsOnID: dependsOnID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&dep).Error; err != nil {
		return fmt.Errorf("dep: create %d → %d: %w", cardID, dependsOnID, err)
	}
	return nil
}

// ListDeps returns the cards that block cardID and the cards it blocks.
func ListDeps(db *gorm.DB, cardID uint) (*DepList, error) {
	if _, err := Get(db, cardID); err != nil {
		return nil, err
	}

	list := DepList{BlockedBy: []DepCard{}, Blocks: []DepCard{}}
	if err := db.Table("card_dependencies AS d").
		Select("c.id, c.title, c.column_id, c.priority, c.progress, d.created_at AS linked_at").
		Joins("JOIN cards c ON c.id = d.depends_on_id").
		Where("d.card_id = ?", cardID).
		Order("c.id ASC").
		Scan(&list.BlockedBy).Error; err != nil {
		return nil, fmt.Errorf("dep: list blockers of %d: %w", cardID, err)
	}
	if err := db.Table("card_dependencies AS d").
		Select("c.id, c.title, c.column_id, c.priority, c.progress, d.created_at AS linked_at").
		Joins("JOIN cards c ON c.id = d.card_id").
		Where("d.depends_on_id = ?", cardID).
		Order("c.id ASC").
		Scan(&list.Blocks).Error; err != nil {
		return nil, fmt.Errorf("dep: list dependents of %d: %w", cardID, err)
	}
	if list.BlockedBy == nil {
		list.BlockedBy = []DepCard{}
	}
	if list.Blocks == nil {
		list.Blocks = []DepCard{}
	}
	return &list, nil
}

// RemoveDep deletes one dependency edge.
func RemoveDep(db *gorm.DB, cardID, dependsOnID uint) error {
	result := db.Where("card_id = ? AND depends_on_id = ?", cardID, dependsOnID).Delete(&models.Dependency{})
	if result.Error != nil {
		return fmt.Errorf("dep: remove %d → %d: %w", cardID, dependsOnID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("dep: %w: dependency %d → %d", models.ErrNotFound, cardID, dependsOnID)
	}
	return nil
}
