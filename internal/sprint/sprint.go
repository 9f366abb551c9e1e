// Package sprint manages time-boxed sprints. Exactly one sprint may be
// active; activation closes whichever sprint held the slot before.
package sprint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tiXor-code/kanban-board/internal/models"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a sprint.
type CreateOpts struct {
	Name      string  `json:"name"`
	Goal      string  `json:"goal"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Status    string  `json:"status"`
}

// UpdateOpts holds a partial sprint update.
type UpdateOpts struct {
	Name      models.Patch[string] `json:"name"`
	Goal      models.Patch[string] `json:"goal"`
	StartDate models.Patch[string] `json:"start_date"`
	EndDate   models.Patch[string] `json:"end_date"`
	Status    models.Patch[string] `json:"status"`
}

// List returns sprints newest first.
func List(db *gorm.DB) ([]models.Sprint, error) {
	sprints := []models.Sprint{}
	if err := db.Order("start_date DESC, id DESC").Find(&sprints).Error; err != nil {
		return nil, fmt.Errorf("sprint: list: %w", err)
	}
	return sprints, nil
}

// Get retrieves a sprint by ID.
func Get(db *gorm.DB, id uint) (*models.Sprint, error) {
	var s models.Sprint
	if err := db.Where("id = ?", id).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("sprint: %w: %d", models.ErrNotFound, id)
		}
		return nil, fmt.Errorf("sprint: get %d: %w", id, err)
	}
	return &s, nil
}

// Active returns the active sprint, or nil when none is active.
func Active(db *gorm.DB) (*models.Sprint, error) {
	var sprints []models.Sprint
	if err := db.Where("status = ?", models.SprintActive).Order("id DESC").Limit(1).Find(&sprints).Error; err != nil {
		return nil, fmt.Errorf("sprint: active: %w", err)
	}
	if len(sprints) == 0 {
		return nil, nil
	}
	return &sprints[0], nil
}

// Create inserts a sprint. Creating it as active closes the current one.
func Create(db *gorm.DB, opts CreateOpts) (*models.Sprint, error) {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		return nil, fmt.Errorf("sprint: %w: name is required", models.ErrInvalid)
	}
	status := opts.Status
	if status == "" {
		status = models.SprintPlanned
	}
	start, end := emptyToNil(opts.StartDate), emptyToNil(opts.EndDate)
	if err := validate(status, start, end); err != nil {
		return nil, err
	}

	s := models.Sprint{Name: name, Goal: opts.Goal, StartDate: start, EndDate: end, Status: status}
	err := db.Transaction(func(tx *gorm.DB) error {
		if status == models.SprintActive {
			if err := closeActive(tx, 0); err != nil {
				return err
			}
		}
		if err := tx.Create(&s).Error; err != nil {
			return fmt.Errorf("sprint: create: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Update applies a partial update. Setting status to active closes every
// other active sprint in the same transaction.
func Update(db *gorm.DB, id uint, opts UpdateOpts) (*models.Sprint, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		current, err := Get(tx, id)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if opts.Name.Set {
			name := strings.TrimSpace(opts.Name.Value)
			if opts.Name.Null || name == "" {
				return fmt.Errorf("sprint: %w: name cannot be empty", models.ErrInvalid)
			}
			updates["name"] = name
		}
		if opts.Goal.Set {
			updates["goal"] = opts.Goal.Value
		}
		start, end, status := current.StartDate, current.EndDate, current.Status
		if opts.StartDate.Set {
			start = emptyToNil(opts.StartDate.Ptr())
			updates["start_date"] = start
		}
		if opts.EndDate.Set {
			end = emptyToNil(opts.EndDate.Ptr())
			updates["end_date"] = end
		}
		if opts.Status.Set {
			if opts.Status.Null {
				return fmt.Errorf("sprint: %w: status cannot be null", models.ErrInvalid)
			}
			status = opts.Status.Value
			updates["status"] = status
		}
		if err := validate(status, start, end); err != nil {
			return err
		}

		if status == models.SprintActive && current.Status != models.SprintActive {
			if err := closeActive(tx, id); err != nil {
				return err
			}
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&models.Sprint{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("sprint: update %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return Get(db, id)
}

// Activate makes id the only active sprint.
func Activate(db *gorm.DB, id uint) (*models.Sprint, error) {
	return Update(db, id, UpdateOpts{Status: models.Some(models.SprintActive)})
}

// closeActive closes every active sprint except keep.
func closeActive(tx *gorm.DB, keep uint) error {
	q := tx.Model(&models.Sprint{}).Where("status = ?", models.SprintActive)
	if keep != 0 {
		q = q.Where("id <> ?", keep)
	}
	if err := q.Update("status", models.SprintClosed).Error; err != nil {
		return fmt.Errorf("sprint: close active: %w", err)
	}
	return nil
}

func validate(status string, start, end *string) error {
	if !models.ValidSprintStatus(status) {
		return fmt.Errorf("sprint: %w: status must be planned, active or closed", models.ErrInvalid)
	}
	for _, d := range []*string{start, end} {
		if d != nil && !models.ValidDate(*d) {
			return fmt.Errorf("sprint: %w: dates must be YYYY-MM-DD", models.ErrInvalid)
		}
	}
	if start != nil && end != nil && *end < *start {
		return fmt.Errorf("sprint: %w: end_date is before start_date", models.ErrInvalid)
	}
	return nil
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
