package card

import (
	"errors"
	"testing"

	"github.com/tiXor-code/kanban-board/internal/models"
)

func TestAddComment_AndList(t *testing.T) {
	gormDB := openCardTestDB(t)
	col := createColumn(t, gormDB, "Todo")
	c := createCard(t, gormDB, col, "a")

	first, err := AddComment(gormDB, c.ID, CommentOpts{Author: "kim", Body: "first"})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if _, err := AddComment(gormDB, c.ID, CommentOpts{Body: "  second  "}); err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	comments, err := ListComments(gormDB, c.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("len = %d, want 2", len(comments))
	}
	if comments[0].ID != first.ID || comments[0].Author != "kim" {
		t.Errorf("comments[0] = %+v", comments[0])
	}
	if comments[1].Author != DefaultAuthor || comments[1].Body != "second" {
		t.Errorf("comments[1] = %+v", comments[1])
	}
}

func TestAddComment_Validation(t *testing.T) {
	gormDB := openCardTestDB(t)
	col := createColumn(t, gormDB, "Todo")
	c := createCard(t, gormDB, col, "a")

	if _, err := AddComment(gormDB, c.ID, CommentOpts{Body: "   "}); !errors.Is(err, models.ErrInvalid) {
		t.Errorf("empty body error = %v, want ErrInvalid", err)
	}
	if _, err := AddComment(gormDB, 404, CommentOpts{Body: "x"}); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("missing card error = %v, want ErrNotFound", err)
	}
}

func TestListComments_Empty(t *testing.T) {
	gormDB := openCardTestDB(t)
	col := createColumn(t, gormDB, "Todo")
	c := createCard(t, gormDB, col, "a")

	comments, err := ListComments(gormDB, c.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if comments == nil || len(comments) != 0 {
		t.Errorf("comments = %#v, want empty non-nil", comments)
	}
}
