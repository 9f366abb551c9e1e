package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tiXor-code/kanban-board/internal/db"
	"github.com/tiXor-code/kanban-board/internal/notify"
	"github.com/tiXor-code/kanban-board/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web board",
		Long: `Serves the board, sprint and council pages plus the JSON API.

The database is opened on the first request, so KANBAN_DATABASE_URL and
KANBAN_DATABASE_AUTH_TOKEN are read at that point rather than at startup.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (default from config, 8080)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	cfg, err := loadConfig(cmd, configPath)
	if err != nil {
		return err
	}
	notifier, err := notify.FromConfig(cfg.Notify)
	if err != nil {
		return err
	}
	if notifier != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Notifications enabled: %s\n", notifier.Name())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return server.Start(ctx, server.StartOpts{
		DB:       db.FromConfig(cfg.Database, os.Getenv),
		Config:   cfg,
		Notifier: notifier,
		Port:     port,
		Out:      cmd.OutOrStdout(),
	})
}
