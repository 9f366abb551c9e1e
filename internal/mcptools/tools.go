package mcptools

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tiXor-code/kanban-board/internal/board"
	"github.com/tiXor-code/kanban-board/internal/card"
	"github.com/tiXor-code/kanban-board/internal/column"
	"github.com/tiXor-code/kanban-board/internal/notify"
	"gorm.io/gorm"
)

// endOfColumn is clamped to the column length by Move.
const endOfColumn = 1 << 30

// BoardTool handles the board_view MCP tool.
type BoardTool struct {
	db *gorm.DB
}

// NewBoardTool creates a BoardTool.
func NewBoardTool(db *gorm.DB) *BoardTool {
	return &BoardTool{db: db}
}

// Definition returns the MCP tool definition for board_view.
func (t *BoardTool) Definition() mcp.Tool {
	return mcp.NewTool("board_view",
		mcp.WithDescription("Show every column and its cards in order, with card ids, priorities and assignees."),
	)
}

// Handle processes the board_view tool call.
func (t *BoardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b, err := board.Load(t.db)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load board: %v", err)), nil
	}
	var buf bytes.Buffer
	board.Render(&buf, b)
	return mcp.NewToolResultText(buf.String()), nil
}

// CreateTool handles the card_create MCP tool.
type CreateTool struct {
	db *gorm.DB
}

// NewCreateTool creates a CreateTool.
func NewCreateTool(db *gorm.DB) *CreateTool {
	return &CreateTool{db: db}
}

// Definition returns the MCP tool definition for card_create.
func (t *CreateTool) Definition() mcp.Tool {
	return mcp.NewTool("card_create",
		mcp.WithDescription("Create a card at the bottom of a column."),
		mcp.WithString("column",
			mcp.Required(),
			mcp.Description("Column id or title (e.g. 'Backlog')"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Card title"),
		),
		mcp.WithString("description",
			mcp.Description("Longer description"),
		),
		mcp.WithString("priority",
			mcp.Description("low, medium, high or urgent (default: medium)"),
		),
		mcp.WithString("labels",
			mcp.Description("Comma-separated labels"),
		),
		mcp.WithString("assignees",
			mcp.Description("Comma-separated assignees"),
		),
	)
}

// Handle processes the card_create tool call.
func (t *CreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := req.GetString("column", "")
	title := req.GetString("title", "")
	if ref == "" {
		return mcp.NewToolResultError("'column' is required"), nil
	}
	if title == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}

	col, err := column.Resolve(t.db, ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	c, err := card.Create(t.db, card.CreateOpts{
		ColumnID:    col.ID,
		Title:       title,
		Description: req.GetString("description", ""),
		Priority:    req.GetString("priority", ""),
		Labels:      splitList(req.GetString("labels", "")),
		Assignees:   splitList(req.GetString("assignees", "")),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Created card #%d %q in %s at position %d", c.ID, c.Title, col.Title, c.Position)), nil
}

// MoveTool handles the card_move MCP tool.
type MoveTool struct {
	db       *gorm.DB
	notifier notify.Notifier
}

// NewMoveTool creates a MoveTool. notifier may be nil.
func NewMoveTool(db *gorm.DB, notifier notify.Notifier) *MoveTool {
	return &MoveTool{db: db, notifier: notifier}
}

// Definition returns the MCP tool definition for card_move.
func (t *MoveTool) Definition() mcp.Tool {
	return mcp.NewTool("card_move",
		mcp.WithDescription("Move a card to a column at a position. Position 0 is the top; omit it to append."),
		mcp.WithNumber("card_id",
			mcp.Required(),
			mcp.Description("Card id"),
		),
		mcp.WithString("column",
			mcp.Required(),
			mcp.Description("Destination column id or title"),
		),
		mcp.WithNumber("position",
			mcp.Description("Zero-based index in the destination column (default: end)"),
		),
	)
}

// Handle processes the card_move tool call.
func (t *MoveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID := req.GetFloat("card_id", 0)
	if cardID <= 0 {
		return mcp.NewToolResultError("'card_id' is required"), nil
	}
	ref := req.GetString("column", "")
	if ref == "" {
		return mcp.NewToolResultError("'column' is required"), nil
	}
	col, err := column.Resolve(t.db, ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := card.Move(t.db, card.MoveOpts{
		CardID:   uint(cardID),
		ColumnID: col.ID,
		Position: int(req.GetFloat("position", endOfColumn)),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	from := col.Title
	if res.FromColumnID != col.ID {
		if prev, err := column.Get(t.db, res.FromColumnID); err == nil {
			from = prev.Title
		}
	}
	notify.Dispatch(t.notifier, notify.CardMoved(res.Card, from, col.Title))
	return mcp.NewToolResultText(fmt.Sprintf("Moved card #%d to %s at position %d", res.Card.ID, col.Title, res.Card.Position)), nil
}

// CommentTool handles the card_comment MCP tool.
type CommentTool struct {
	db       *gorm.DB
	notifier notify.Notifier
}

// NewCommentTool creates a CommentTool. notifier may be nil.
func NewCommentTool(db *gorm.DB, notifier notify.Notifier) *CommentTool {
	return &CommentTool{db: db, notifier: notifier}
}

// Definition returns the MCP tool definition for card_comment.
func (t *CommentTool) Definition() mcp.Tool {
	return mcp.NewTool("card_comment",
		mcp.WithDescription("Add a comment to a card's thread."),
		mcp.WithNumber("card_id",
			mcp.Required(),
			mcp.Description("Card id"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Comment text"),
		),
		mcp.WithString("author",
			mcp.Description("Author name (default: assistant)"),
		),
	)
}

// Handle processes the card_comment tool call.
func (t *CommentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID := req.GetFloat("card_id", 0)
	if cardID <= 0 {
		return mcp.NewToolResultError("'card_id' is required"), nil
	}
	body := req.GetString("body", "")
	if strings.TrimSpace(body) == "" {
		return mcp.NewToolResultError("'body' is required"), nil
	}

	cm, err := card.AddComment(t.db, uint(cardID), card.CommentOpts{
		Author: req.GetString("author", "assistant"),
		Body:   body,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if c, err := card.Get(t.db, cm.CardID); err == nil {
		notify.Dispatch(t.notifier, notify.CommentAdded(*c, *cm))
	}
	return mcp.NewToolResultText(fmt.Sprintf("Comment #%d added to card #%d by %s", cm.ID, cm.CardID, cm.Author)), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
