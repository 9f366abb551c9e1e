package card

import (
	"fmt"
	"time"

	"github.com/tiXor-code/kanban-board/internal/models"
	"github.com/tiXor-code/kanban-board/internal/rank"
	"gorm.io/gorm"
)

// MoveOpts identifies a card and where it should land.
type MoveOpts struct {
	CardID   uint `json:"card_id"`
	ColumnID uint `json:"column_id"`
	Position int  `json:"position"`
}

// MoveResult reports a completed move.
type MoveResult struct {
	Card         models.Card `json:"card"`
	FromColumnID uint        `json:"from_column_id"`
}

// Move places a card at Position in ColumnID. The destination column is
// rebuilt as an ordered id list (card removed, then spliced in at the
// clamped index) and every row in it is rewritten; the source column is
// then renumbered. The whole move is one transaction.
func Move(db *gorm.DB, opts MoveOpts) (*MoveResult, error) {
	if opts.CardID == 0 {
		return nil, fmt.Errorf("card: %w: card_id is required", models.ErrInvalid)
	}
	if opts.ColumnID == 0 {
		return nil, fmt.Errorf("card: %w: column_id is required", models.ErrInvalid)
	}

	var result MoveResult
	err := db.Transaction(func(tx *gorm.DB) error {
		c, err := Get(tx, opts.CardID)
		if err != nil {
			return err
		}
		if err := columnExists(tx, opts.ColumnID); err != nil {
			return err
		}
		result.FromColumnID = c.ColumnID

		ids, err := columnCardIDs(tx, opts.ColumnID)
		if err != nil {
			return err
		}
		ordered, _ := rank.Splice(ids, c.ID, opts.Position)

		now := time.Now()
		for i, id := range ordered {
			q := tx.Model(&models.Card{}).Where("id = ?", id)
			if id == c.ID {
				err = q.UpdateColumns(map[string]interface{}{
					"column_id":  opts.ColumnID,
					"position":   i,
					"updated_at": now,
				}).Error
			} else {
				err = q.UpdateColumn("position", i).Error
			}
			if err != nil {
				return fmt.Errorf("card: reposition %d: %w", id, err)
			}
		}

		if c.ColumnID != opts.ColumnID {
			if err := renumberColumn(tx, c.ColumnID); err != nil {
				return err
			}
		}

		moved, err := Get(tx, c.ID)
		if err != nil {
			return err
		}
		result.Card = *moved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// columnCardIDs returns a column's card IDs in display order.
func columnCardIDs(tx *gorm.DB, columnID uint) ([]uint, error) {
	var ids []uint
	if err := tx.Model(&models.Card{}).Where("column_id = ?", columnID).
		Order("position ASC, id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("card: load column %d order: %w", columnID, err)
	}
	return ids, nil
}

// renumberColumn rewrites positions in a column to 0..n-1, keeping order.
func renumberColumn(tx *gorm.DB, columnID uint) error {
	ids, err := columnCardIDs(tx, columnID)
	if err != nil {
		return err
	}
	for i, id := range ids {
		if err := tx.Model(&models.Card{}).Where("id = ?", id).UpdateColumn("position", i).Error; err != nil {
			return fmt.Errorf("card: renumber %d: %w", id, err)
		}
	}
	return nil
}
