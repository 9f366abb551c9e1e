package card

import (
	"fmt"
	"strings"

	"github.com/tiXor-code/kanban-board/internal/models"
	"gorm.io/gorm"
)

// DefaultAuthor is recorded when a comment arrives without an author.
const DefaultAuthor = "anonymous"

// CommentOpts holds parameters for a new comment.
type CommentOpts struct {
	Author string `json:"author"`
	Body   string `json:"body"`
}

// AddComment appends a comment to a card's thread.
func AddComment(db *gorm.DB, cardID uint, opts CommentOpts) (*models.Comment, error) {
	body := strings.TrimSpace(opts.Body)
	if body == "" {
		return nil, fmt.Errorf("comment: %w: body is required", models.ErrInvalid)
	}
	if _, err := Get(db, cardID); err != nil {
		return nil, err
	}
	author := strings.TrimSpace(opts.Author)
	if author == "" {
		author = DefaultAuthor
	}

	cm := models.Comment{CardID: cardID, Author: author, Body: body}
	if err := db.Create(&cm).Error; err != nil {
		return nil, fmt.Errorf("comment: create on card %d: %w", cardID, err)
	}
	return &cm, nil
}

// ListComments returns a card's comments oldest first.
func ListComments(db *gorm.DB, cardID uint) ([]models.Comment, error) {
	if _, err := Get(db, cardID); err != nil {
		return nil, err
	}
	comments := []models.Comment{}
	if err := db.Where("card_id = ?", cardID).Order("created_at ASC, id ASC").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("comment: list for card %d: %w", cardID, err)
	}
	return comments, nil
}
