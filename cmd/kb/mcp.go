package main

import (
	"github.com/spf13/cobra"
	"github.com/tiXor-code/kanban-board/internal/mcptools"
	"github.com/tiXor-code/kanban-board/internal/notify"
)

func newMCPCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve board tools to AI assistants over stdio",
		Long: `Runs a Model Context Protocol server on stdin/stdout exposing board_view,
card_create, card_move and card_comment. Point an MCP client at "kb mcp".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := connectFromConfig(cmd, configPath)
			if err != nil {
				return err
			}
			notifier, err := notify.FromConfig(cfg.Notify)
			if err != nil {
				return err
			}
			return mcptools.Serve(mcptools.New(gormDB, notifier, Version))
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}
