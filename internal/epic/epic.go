// Package epic manages epics, the optional cross-column grouping for cards.
package epic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tiXor-code/kanban-board/internal/models"
	"gorm.io/gorm"
)

// Epic statuses.
const (
	StatusOpen = "open"
	StatusDone = "done"
)

// DefaultColor is used when an epic is created without a color.
const DefaultColor = "#8b5cf6"

// CreateOpts holds parameters for creating an epic.
type CreateOpts struct {
	Title       string `json:"title"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// UpdateOpts holds a partial epic update.
type UpdateOpts struct {
	Title       models.Patch[string] `json:"title"`
	Color       models.Patch[string] `json:"color"`
	Description models.Patch[string] `json:"description"`
	Status      models.Patch[string] `json:"status"`
}

// List returns all epics in creation order.
func List(db *gorm.DB) ([]models.Epic, error) {
	epics := []models.Epic{}
	if err := db.Order("id ASC").Find(&epics).Error; err != nil {
		return nil, fmt.Errorf("epic: list: %w", err)
	}
	return epics, nil
}

// Get retrieves an epic by ID.
func Get(db *gorm.DB, id uint) (*models.Epic, error) {
	var e models.Epic
	if err := db.Where("id = ?", id).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("epic: %w: %d", models.ErrNotFound, id)
		}
		return nil, fmt.Errorf("epic: get %d: %w", id, err)
	}
	return &e, nil
}

// Create inserts an open epic.
func Create(db *gorm.DB, opts CreateOpts) (*models.Epic, error) {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		return nil, fmt.Errorf("epic: %w: title is required", models.ErrInvalid)
	}
	color := opts.Color
	if color == "" {
		color = DefaultColor
	}
	e := models.Epic{Title: title, Color: color, Description: opts.Description, Status: StatusOpen}
	if err := db.Create(&e).Error; err != nil {
		return nil, fmt.Errorf("epic: create: %w", err)
	}
	return &e, nil
}

// Update applies a partial update.
func Update(db *gorm.DB, id uint, opts UpdateOpts) (*models.Epic, error) {
	if _, err := Get(db, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if opts.Title.Set {
		title := strings.TrimSpace(opts.Title.Value)
		if opts.Title.Null || title == "" {
			return nil, fmt.Errorf("epic: %w: title cannot be empty", models.ErrInvalid)
		}
		updates["title"] = title
	}
	if opts.Color.Set {
		color := opts.Color.Value
		if color == "" {
			color = DefaultColor
		}
		updates["color"] = color
	}
	if opts.Description.Set {
		updates["description"] = opts.Description.Value
	}
	if opts.Status.Set {
		if s := opts.Status.Value; s != StatusOpen && s != StatusDone {
			return nil, fmt.Errorf("epic: %w: status must be open or done", models.ErrInvalid)
		}
		updates["status"] = opts.Status.Value
	}

	if len(updates) > 0 {
		if err := db.Model(&models.Epic{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("epic: update %d: %w", id, err)
		}
	}
	return Get(db, id)
}

// Delete removes an epic and detaches its cards.
func Delete(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := Get(tx, id); err != nil {
			return err
		}
		if err := tx.Model(&models.Card{}).Where("epic_id = ?", id).Update("epic_id", nil).Error; err != nil {
			return fmt.Errorf("epic: detach cards of %d: %w", id, err)
		}
		if err := tx.Delete(&models.Epic{}, id).Error; err != nil {
			return fmt.Errorf("epic: delete %d: %w", id, err)
		}
		return nil
	})
}
