// Package column manages the ordered set of board columns.
package column

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tiXor-code/kanban-board/internal/models"
	"github.com/tiXor-code/kanban-board/internal/rank"
	"gorm.io/gorm"
)

// DefaultColor is used when a column is created without one.
const DefaultColor = "#64748b"

// CreateOpts holds parameters for creating a column.
type CreateOpts struct {
	Title string `json:"title"`
	Color string `json:"color"`
}

// UpdateOpts holds a partial column update. A set Position reorders the
// column among its siblings.
type UpdateOpts struct {
	Title    models.Patch[string] `json:"title"`
	Color    models.Patch[string] `json:"color"`
	Position models.Patch[int]    `json:"position"`
}

// List returns all columns ordered by position.
func List(db *gorm.DB) ([]models.Column, error) {
	cols := []models.Column{}
	if err := db.Order("position ASC, id ASC").Find(&cols).Error; err != nil {
		return nil, fmt.Errorf("column: list: %w", err)
	}
	return cols, nil
}

// Get retrieves a column by ID.
func Get(db *gorm.DB, id uint) (*models.Column, error) {
	var col models.Column
	if err := db.Where("id = ?", id).First(&col).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("column: %w: %d", models.ErrNotFound, id)
		}
		return nil, fmt.Errorf("column: get %d: %w", id, err)
	}
	return &col, nil
}

// Resolve finds a column by numeric ID or, failing that, by title
// (case-insensitive).
func Resolve(db *gorm.DB, ref string) (*models.Column, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		return Get(db, uint(id))
	}
	cols := []models.Column{}
	if err := db.Where("LOWER(title) = ?", strings.ToLower(ref)).Order("position ASC").Limit(1).Find(&cols).Error; err != nil {
		return nil, fmt.Errorf("column: resolve %q: %w", ref, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("column: %w: %q", models.ErrNotFound, ref)
	}
	return &cols[0], nil
}

// Create appends a column at max(position)+1.
func Create(db *gorm.DB, opts CreateOpts) (*models.Column, error) {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		return nil, fmt.Errorf("column: %w: title is required", models.ErrInvalid)
	}
	color := opts.Color
	if color == "" {
		color = DefaultColor
	}

	var maxPos int
	if err := db.Model(&models.Column{}).Select("COALESCE(MAX(position), -1)").Scan(&maxPos).Error; err != nil {
		return nil, fmt.Errorf("column: max position: %w", err)
	}

	col := models.Column{Title: title, Color: color, Position: maxPos + 1}
	if err := db.Create(&col).Error; err != nil {
		return nil, fmt.Errorf("column: create: %w", err)
	}
	return &col, nil
}

// Update applies a partial update and returns the stored column.
func Update(db *gorm.DB, id uint, opts UpdateOpts) (*models.Column, error) {
	updates := map[string]interface{}{}
	if opts.Title.Set {
		title := strings.TrimSpace(opts.Title.Value)
		if opts.Title.Null || title == "" {
			return nil, fmt.Errorf("column: %w: title cannot be empty", models.ErrInvalid)
		}
		updates["title"] = title
	}
	if opts.Color.Set {
		color := opts.Color.Value
		if opts.Color.Null || color == "" {
			color = DefaultColor
		}
		updates["color"] = color
	}
	if opts.Position.Set && opts.Position.Null {
		return nil, fmt.Errorf("column: %w: position cannot be null", models.ErrInvalid)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := Get(tx, id); err != nil {
			return err
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.Column{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return fmt.Errorf("column: update %d: %w", id, err)
			}
		}
		if opts.Position.Set {
			return reorder(tx, id, opts.Position.Value)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return Get(db, id)
}

// Delete removes a column together with its cards and everything hanging off
// those cards, then closes the gap in column positions.
func Delete(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := Get(tx, id); err != nil {
			return err
		}

		var cardIDs []uint
		if err := tx.Model(&models.Card{}).Where("column_id = ?", id).Pluck("id", &cardIDs).Error; err != nil {
			return fmt.Errorf("column: list cards of %d: %w", id, err)
		}
		if len(cardIDs) > 0 {
			if err := tx.Where("card_id IN ?", cardIDs).Delete(&models.Comment{}).Error; err != nil {
				return fmt.Errorf("column: delete comments: %w", err)
			}
			if err := tx.Where("card_id IN ? OR depends_on_id IN ?", cardIDs, cardIDs).Delete(&models.Dependency{}).Error; err != nil {
				return fmt.Errorf("column: delete dependencies: %w", err)
			}
			if err := tx.Where("column_id = ?", id).Delete(&models.Card{}).Error; err != nil {
				return fmt.Errorf("column: delete cards: %w", err)
			}
		}

		if err := tx.Where("id = ?", id).Delete(&models.Column{}).Error; err != nil {
			return fmt.Errorf("column: delete %d: %w", id, err)
		}
		return renumber(tx)
	})
}

// orderedIDs returns column IDs in board order.
func orderedIDs(tx *gorm.DB) ([]uint, error) {
	var ids []uint
	if err := tx.Model(&models.Column{}).Order("position ASC, id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("column: load order: %w", err)
	}
	return ids, nil
}

// reorder moves column id to index and rewrites every column's position.
func reorder(tx *gorm.DB, id uint, index int) error {
	ids, err := orderedIDs(tx)
	if err != nil {
		return err
	}
	ordered, _ := rank.Splice(ids, id, index)
	return writePositions(tx, ordered)
}

// renumber closes gaps so positions run 0..n-1.
func renumber(tx *gorm.DB) error {
	ids, err := orderedIDs(tx)
	if err != nil {
		return err
	}
	return writePositions(tx, ids)
}

func writePositions(tx *gorm.DB, ids []uint) error {
	for i, colID := range ids {
		if err := tx.Model(&models.Column{}).Where("id = ?", colID).UpdateColumn("position", i).Error; err != nil {
			return fmt.Errorf("column: set position of %d: %w", colID, err)
		}
	}
	return nil
}
