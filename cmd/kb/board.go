package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tiXor-code/kanban-board/internal/board"
	"github.com/tiXor-code/kanban-board/internal/models"
)

func newBoardCmd() *cobra.Command {
	var (
		configPath string
		stats      bool
	)

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Print the board",
		Long:  "Prints every column with its cards in position order. --stats adds totals and overdue counts.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd, configPath, stats)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().BoolVar(&stats, "stats", false, "also print board statistics")
	return cmd
}

func runBoard(cmd *cobra.Command, configPath string, withStats bool) error {
	_, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}
	b, err := board.Load(gormDB)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	board.Render(out, b)

	if !withStats {
		return nil
	}
	s, err := board.ComputeStats(gormDB, time.Now().Format(models.DateLayout))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d cards, %.1fh estimated, %.0f%% average progress, %d overdue\n",
		s.TotalCards, s.TotalHours, s.AvgProgress, s.Overdue)
	for _, p := range models.Priorities {
		fmt.Fprintf(out, "  %-7s %d\n", p, s.ByPriority[p])
	}
	return nil
}
