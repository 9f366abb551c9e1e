// Package card provides card lifecycle operations: CRUD, moves between
// columns, dependency edges and comment threads.
package card

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tiXor-code/kanban-board/internal/models"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a new card.
type CreateOpts struct {
	ColumnID    uint     `json:"column_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Labels      []string `json:"labels"`
	DueDate     *string  `json:"due_date"`
	Hours       float64  `json:"hours"`
	Assignee    string   `json:"assignee"`
	Assignees   []string `json:"assignees"`
	Priority    string   `json:"priority"`
	SprintID    *uint    `json:"sprint_id"`
	EpicID      *uint    `json:"epic_id"`
	Progress    int      `json:"progress"`
	Source      string   `json:"source"`
}

// UpdateOpts holds a partial card update. Only fields present in the JSON
// payload are written. Column and position changes go through Move.
type UpdateOpts struct {
	Title       models.Patch[string]   `json:"title"`
	Description models.Patch[string]   `json:"description"`
	Labels      models.Patch[[]string] `json:"labels"`
	DueDate     models.Patch[string]   `json:"due_date"`
	Hours       models.Patch[float64]  `json:"hours"`
	Assignee    models.Patch[string]   `json:"assignee"`
	Assignees   models.Patch[[]string] `json:"assignees"`
	Priority    models.Patch[string]   `json:"priority"`
	SprintID    models.Patch[uint]     `json:"sprint_id"`
	EpicID      models.Patch[uint]     `json:"epic_id"`
	Progress    models.Patch[int]      `json:"progress"`
}

// ListFilters holds optional filters for listing cards.
type ListFilters struct {
	ColumnID uint
	SprintID uint
	EpicID   uint
}

// Get retrieves a card by ID.
func Get(db *gorm.DB, id uint) (*models.Card, error) {
	var c models.Card
	if err := db.Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("card: %w: %d", models.ErrNotFound, id)
		}
		return nil, fmt.Errorf("card: get %d: %w", id, err)
	}
	return &c, nil
}

// List returns cards matching the filters, ordered by column then position.
func List(db *gorm.DB, filters ListFilters) ([]models.Card, error) {
	q := db.Model(&models.Card{})
	if filters.ColumnID != 0 {
		q = q.Where("column_id = ?", filters.ColumnID)
	}
	if filters.SprintID != 0 {
		q = q.Where("sprint_id = ?", filters.SprintID)
	}
	if filters.EpicID != 0 {
		q = q.Where("epic_id = ?", filters.EpicID)
	}

	cards := []models.Card{}
	if err := q.Order("column_id ASC, position ASC, id ASC").Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("card: list: %w", err)
	}
	return cards, nil
}

// Create appends a card to its column at max(position)+1, where the max of
// an empty column is -1.
func Create(db *gorm.DB, opts CreateOpts) (*models.Card, error) {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		return nil, fmt.Errorf("card: %w: title is required", models.ErrInvalid)
	}
	if opts.ColumnID == 0 {
		return nil, fmt.Errorf("card: %w: column_id is required", models.ErrInvalid)
	}
	priority := opts.Priority
	if priority == "" {
		priority = models.DefaultPriority
	}
	if err := validateFields(priority, opts.DueDate, opts.Hours, opts.Progress); err != nil {
		return nil, err
	}
	if err := columnExists(db, opts.ColumnID); err != nil {
		return nil, err
	}
	if err := refsExist(db, opts.SprintID, opts.EpicID); err != nil {
		return nil, err
	}

	assignee, assignees := syncAssignees(opts.Assignee, opts.Assignees, opts.Assignees != nil)

	var maxPos int
	if err := db.Model(&models.Card{}).Where("column_id = ?", opts.ColumnID).
		Select("COALESCE(MAX(position), -1)").Scan(&maxPos).Error; err != nil {
		return nil, fmt.Errorf("card: max position in column %d: %w", opts.ColumnID, err)
	}

	c := models.Card{
		ColumnID:    opts.ColumnID,
		Title:       title,
		Description: opts.Description,
		Labels:      cleanList(opts.Labels),
		DueDate:     emptyToNil(opts.DueDate),
		Position:    maxPos + 1,
		Hours:       opts.Hours,
		Assignee:    assignee,
		Assignees:   assignees,
		Priority:    priority,
		SprintID:    opts.SprintID,
		EpicID:      opts.EpicID,
		Progress:    opts.Progress,
		Source:      opts.Source,
	}
	if err := db.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("card: create: %w", err)
	}
	return &c, nil
}

// Update applies a partial update and returns the stored card.
func Update(db *gorm.DB, id uint, opts UpdateOpts) (*models.Card, error) {
	current, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if opts.Title.Set {
		title := strings.TrimSpace(opts.Title.Value)
		if opts.Title.Null || title == "" {
			return nil, fmt.Errorf("card: %w: title cannot be empty", models.ErrInvalid)
		}
		updates["title"] = title
	}
	if opts.Description.Set {
		updates["description"] = opts.Description.Value
	}
	if opts.Labels.Set {
		updates["labels"] = cleanList(opts.Labels.Value)
	}

	dueDate := current.DueDate
	if opts.DueDate.Set {
		dueDate = emptyToNil(opts.DueDate.Ptr())
		updates["due_date"] = dueDate
	}
	hours := current.Hours
	if opts.Hours.Set {
		hours = opts.Hours.Value
		updates["hours"] = hours
	}
	priority := current.Priority
	if opts.Priority.Set {
		priority = opts.Priority.Value
		if opts.Priority.Null || priority == "" {
			priority = models.DefaultPriority
		}
		updates["priority"] = priority
	}
	progress := current.Progress
	if opts.Progress.Set {
		progress = opts.Progress.Value
		updates["progress"] = progress
	}
	if err := validateFields(priority, dueDate, hours, progress); err != nil {
		return nil, err
	}

	if opts.Assignee.Set || opts.Assignees.Set {
		assignee, assignees := syncAssignees(opts.Assignee.Value, opts.Assignees.Value, opts.Assignees.Set && !opts.Assignees.Null)
		updates["assignee"] = assignee
		updates["assignees"] = assignees
	}

	var sprintID, epicID *uint
	if opts.SprintID.Set {
		sprintID = opts.SprintID.Ptr()
		updates["sprint_id"] = sprintID
	}
	if opts.EpicID.Set {
		epicID = opts.EpicID.Ptr()
		updates["epic_id"] = epicID
	}
	if err := refsExist(db, sprintID, epicID); err != nil {
		return nil, err
	}

	if len(updates) == 0 {
		return current, nil
	}
	if err := db.Model(&models.Card{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("card: update %d: %w", id, err)
	}
	return Get(db, id)
}

// Delete removes a card, its comments and every dependency edge touching it,
// then closes the gap in its column.
func Delete(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		c, err := Get(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("card_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("card: delete comments of %d: %w", id, err)
		}
		if err := tx.Where("card_id = ? OR depends_on_id = ?", id, id).Delete(&models.Dependency{}).Error; err != nil {
			return fmt.Errorf("card: delete dependencies of %d: %w", id, err)
		}
		if err := tx.Where("id = ?", id).Delete(&models.Card{}).Error; err != nil {
			return fmt.Errorf("card: delete %d: %w", id, err)
		}
		return renumberColumn(tx, c.ColumnID)
	})
}

// validateFields checks the scalar fields shared by create and update.
func validateFields(priority string, dueDate *string, hours float64, progress int) error {
	if !models.ValidPriority(priority) {
		return fmt.Errorf("card: %w: priority must be one of %v", models.ErrInvalid, models.Priorities)
	}
	if dueDate != nil && *dueDate != "" && !models.ValidDate(*dueDate) {
		return fmt.Errorf("card: %w: due_date must be YYYY-MM-DD", models.ErrInvalid)
	}
	if hours < 0 {
		return fmt.Errorf("card: %w: hours cannot be negative", models.ErrInvalid)
	}
	if progress < 0 || progress > 100 {
		return fmt.Errorf("card: %w: progress must be between 0 and 100", models.ErrInvalid)
	}
	return nil
}

func columnExists(db *gorm.DB, columnID uint) error {
	var count int64
	if err := db.Model(&models.Column{}).Where("id = ?", columnID).Count(&count).Error; err != nil {
		return fmt.Errorf("card: check column %d: %w", columnID, err)
	}
	if count == 0 {
		return fmt.Errorf("card: %w: column %d", models.ErrNotFound, columnID)
	}
	return nil
}

// refsExist rejects sprint or epic references that point nowhere.
func refsExist(db *gorm.DB, sprintID, epicID *uint) error {
	check := func(model interface{}, name string, id *uint) error {
		if id == nil {
			return nil
		}
		var count int64
		if err := db.Model(model).Where("id = ?", *id).Count(&count).Error; err != nil {
			return fmt.Errorf("card: check %s %d: %w", name, *id, err)
		}
		if count == 0 {
			return fmt.Errorf("card: %w: %s %d does not exist", models.ErrInvalid, name, *id)
		}
		return nil
	}
	if err := check(&models.Sprint{}, "sprint", sprintID); err != nil {
		return err
	}
	return check(&models.Epic{}, "epic", epicID)
}

// syncAssignees keeps the legacy single assignee and the assignee list in
// step. When the list was supplied it wins and the single field mirrors its
// first entry.
func syncAssignees(single string, list []string, listSupplied bool) (string, models.StringList) {
	if listSupplied {
		cleaned := cleanList(list)
		if len(cleaned) == 0 {
			return "", cleaned
		}
		return cleaned[0], cleaned
	}
	single = strings.TrimSpace(single)
	if single == "" {
		return "", models.StringList{}
	}
	return single, models.StringList{single}
}

// cleanList trims entries and drops blanks and duplicates.
func cleanList(in []string) models.StringList {
	out := models.StringList{}
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
