package mcptools

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tiXor-code/kanban-board/internal/card"
	"github.com/tiXor-code/kanban-board/internal/column"
	"github.com/tiXor-code/kanban-board/internal/db"
	"github.com/tiXor-code/kanban-board/internal/notify"
	"gorm.io/gorm"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

func openToolTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.Open(":memory:", "")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	for _, title := range []string{"Backlog", "Done"} {
		if _, err := column.Create(gormDB, column.CreateOpts{Title: title}); err != nil {
			t.Fatalf("create column: %v", err)
		}
	}
	return gormDB
}

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

type recordingNotifier struct {
	sent chan notify.Message
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{sent: make(chan notify.Message, 4)}
}

func (r *recordingNotifier) Name() string { return "recording" }

func (r *recordingNotifier) Send(ctx context.Context, msg notify.Message) error {
	r.sent <- msg
	return nil
}

// ─── Definitions ─────────────────────────────────────────────────────────────

func TestDefinitions(t *testing.T) {
	gormDB := openToolTestDB(t)
	tests := []struct {
		tool     mcp.Tool
		name     string
		required []string
	}{
		{NewBoardTool(gormDB).Definition(), "board_view", nil},
		{NewCreateTool(gormDB).Definition(), "card_create", []string{"column", "title"}},
		{NewMoveTool(gormDB, nil).Definition(), "card_move", []string{"card_id", "column"}},
		{NewCommentTool(gormDB, nil).Definition(), "card_comment", []string{"card_id", "body"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.name {
				t.Errorf("name = %q, want %q", tt.tool.Name, tt.name)
			}
			for _, r := range tt.required {
				if _, ok := tt.tool.InputSchema.Properties[r]; !ok {
					t.Errorf("missing %q parameter", r)
				}
				found := false
				for _, got := range tt.tool.InputSchema.Required {
					if got == r {
						found = true
					}
				}
				if !found {
					t.Errorf("%q should be required", r)
				}
			}
		})
	}
}

func TestNew_RegistersTools(t *testing.T) {
	s := New(openToolTestDB(t), nil, "test")
	tools := s.ListTools()
	for _, name := range []string{"board_view", "card_create", "card_move", "card_comment"} {
		if _, ok := tools[name]; !ok {
			t.Errorf("tool %q not registered", name)
		}
	}
}

// ─── Handlers ────────────────────────────────────────────────────────────────

func TestCreateTool_Handle(t *testing.T) {
	gormDB := openToolTestDB(t)
	tool := NewCreateTool(gormDB)

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"column":    "backlog",
		"title":     "Write release notes",
		"priority":  "high",
		"labels":    "docs, release",
		"assignees": "ana",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(res))
	}
	if !strings.Contains(resultText(res), "Created card #1") {
		t.Errorf("text = %q", resultText(res))
	}

	c, err := card.Get(gormDB, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if c.Priority != "high" || len(c.Labels) != 2 || c.Assignee != "ana" {
		t.Errorf("card = %+v", c)
	}
}

func TestCreateTool_Errors(t *testing.T) {
	tool := NewCreateTool(openToolTestDB(t))
	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"missing column", map[string]interface{}{"title": "x"}, "'column' is required"},
		{"missing title", map[string]interface{}{"column": "Backlog"}, "'title' is required"},
		{"unknown column", map[string]interface{}{"column": "Nope", "title": "x"}, "not found"},
		{"bad priority", map[string]interface{}{"column": "Backlog", "title": "x", "priority": "soon"}, "priority"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tool.Handle(context.Background(), makeReq(tt.args))
			if err != nil {
				t.Fatalf("Handle returned Go error: %v", err)
			}
			if !res.IsError || !strings.Contains(resultText(res), tt.want) {
				t.Errorf("result = %v %q, want error containing %q", res.IsError, resultText(res), tt.want)
			}
		})
	}
}

func TestMoveTool_Handle(t *testing.T) {
	gormDB := openToolTestDB(t)
	for _, title := range []string{"a", "b"} {
		card.Create(gormDB, card.CreateOpts{ColumnID: 2, Title: title})
	}
	moving, _ := card.Create(gormDB, card.CreateOpts{ColumnID: 1, Title: "moving"})

	n := newRecordingNotifier()
	tool := NewMoveTool(gormDB, n)
	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"card_id":  float64(moving.ID),
		"column":   "Done",
		"position": float64(0),
	}))
	if err != nil || res.IsError {
		t.Fatalf("Handle: %v %s", err, resultText(res))
	}

	got, _ := card.Get(gormDB, moving.ID)
	if got.ColumnID != 2 || got.Position != 0 {
		t.Errorf("moved card = column %d position %d", got.ColumnID, got.Position)
	}
	msg := <-n.sent
	if !strings.Contains(msg.Body, "Backlog → Done") {
		t.Errorf("notification body = %q", msg.Body)
	}

	// Omitting position appends.
	res, _ = tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"card_id": float64(moving.ID),
		"column":  "2",
	}))
	if res.IsError {
		t.Fatalf("append move: %s", resultText(res))
	}
	got, _ = card.Get(gormDB, moving.ID)
	if got.Position != 2 {
		t.Errorf("position after append = %d, want 2", got.Position)
	}
	<-n.sent
}

func TestMoveTool_Errors(t *testing.T) {
	tool := NewMoveTool(openToolTestDB(t), nil)
	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"missing card", map[string]interface{}{"column": "Done"}, "'card_id' is required"},
		{"missing column", map[string]interface{}{"card_id": float64(1)}, "'column' is required"},
		{"unknown card", map[string]interface{}{"card_id": float64(42), "column": "Done"}, "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _ := tool.Handle(context.Background(), makeReq(tt.args))
			if !res.IsError || !strings.Contains(resultText(res), tt.want) {
				t.Errorf("result = %q, want error containing %q", resultText(res), tt.want)
			}
		})
	}
}

func TestCommentTool_Handle(t *testing.T) {
	gormDB := openToolTestDB(t)
	c, _ := card.Create(gormDB, card.CreateOpts{ColumnID: 1, Title: "review"})

	n := newRecordingNotifier()
	tool := NewCommentTool(gormDB, n)
	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"card_id": float64(c.ID),
		"body":    "LGTM",
	}))
	if err != nil || res.IsError {
		t.Fatalf("Handle: %v %s", err, resultText(res))
	}
	if !strings.Contains(resultText(res), "by assistant") {
		t.Errorf("text = %q", resultText(res))
	}
	comments, _ := card.ListComments(gormDB, c.ID)
	if len(comments) != 1 || comments[0].Body != "LGTM" {
		t.Errorf("comments = %+v", comments)
	}
	if msg := <-n.sent; !strings.Contains(msg.Title, "assistant commented on #1") {
		t.Errorf("notification = %+v", msg)
	}

	res, _ = tool.Handle(context.Background(), makeReq(map[string]interface{}{"card_id": float64(c.ID), "body": " "}))
	if !res.IsError {
		t.Error("blank body should be rejected")
	}
}

func TestBoardTool_Handle(t *testing.T) {
	gormDB := openToolTestDB(t)
	card.Create(gormDB, card.CreateOpts{ColumnID: 1, Title: "first", Priority: "low"})

	res, err := NewBoardTool(gormDB).Handle(context.Background(), makeReq(nil))
	if err != nil || res.IsError {
		t.Fatalf("Handle: %v %s", err, resultText(res))
	}
	text := resultText(res)
	for _, want := range []string{"## Backlog (1)", "#1 first [low]", "## Done (0)"} {
		if !strings.Contains(text, want) {
			t.Errorf("board text missing %q:\n%s", want, text)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a, ,b ,")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("splitList = %v", got)
	}
	if splitList("") != nil {
		t.Error("empty input should give nil")
	}
}
