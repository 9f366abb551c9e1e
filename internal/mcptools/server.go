// Package mcptools exposes the board to AI assistants as Model Context
// Protocol tools served over stdio.
package mcptools

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/tiXor-code/kanban-board/internal/notify"
	"gorm.io/gorm"
)

const instructions = `Kanban board tools. Call board_view first to learn column and card ids.
Use card_create to add work, card_move to change a card's column or order, and
card_comment to leave notes on a card.`

// New builds an MCP server with every board tool registered. notifier may be
// nil.
func New(db *gorm.DB, notifier notify.Notifier, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"kanban-board",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	boardTool := NewBoardTool(db)
	s.AddTool(boardTool.Definition(), boardTool.Handle)

	createTool := NewCreateTool(db)
	s.AddTool(createTool.Definition(), createTool.Handle)

	moveTool := NewMoveTool(db, notifier)
	s.AddTool(moveTool.Definition(), moveTool.Handle)

	commentTool := NewCommentTool(db, notifier)
	s.AddTool(commentTool.Definition(), commentTool.Handle)

	return s
}

// Serve runs the MCP server on stdin/stdout until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
