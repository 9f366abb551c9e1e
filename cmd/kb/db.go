package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tiXor-code/kanban-board/internal/card"
	"github.com/tiXor-code/kanban-board/internal/config"
	"github.com/tiXor-code/kanban-board/internal/db"
	"github.com/tiXor-code/kanban-board/internal/models"
	"github.com/tiXor-code/kanban-board/internal/sprint"
	"golang.org/x/term"
	"gorm.io/gorm"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	cmd.AddCommand(newDBResetCmd())
	cmd.AddCommand(newDBSeedCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the board database",
		Long:  "Migrates all tables and creates the configured seed columns when the board is empty.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, configPath)
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func runDBInit(cmd *cobra.Command, configPath string) error {
	cfg, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))
	if err := seedColumns(out, gormDB, cfg.SeedColumns); err != nil {
		return err
	}
	fmt.Fprintln(out, "\nBoard database initialized successfully.")
	return nil
}

func newDBResetCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and re-initialize the board database",
		Long: `Drops every board table, migrates again and re-creates the seed columns.

Asks for confirmation on an interactive terminal. Without a terminal, pass
--yes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBReset(cmd, configPath, yes)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func runDBReset(cmd *cobra.Command, configPath string, skipConfirm bool) error {
	out := cmd.OutOrStdout()

	if !skipConfirm {
		in := cmd.InOrStdin()
		if !isTerminal(in) {
			return fmt.Errorf("db reset: stdin is not a terminal; pass --yes to confirm")
		}
		if !confirmReset(out, in) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	cfg, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}
	if err := db.DropAll(gormDB); err != nil {
		return err
	}
	fmt.Fprintln(out, "Dropped all tables")
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))
	if err := seedColumns(out, gormDB, cfg.SeedColumns); err != nil {
		return err
	}
	fmt.Fprintln(out, "\nBoard database reset successfully.")
	return nil
}

func newDBSeedCmd() *cobra.Command {
	var (
		configPath string
		demo       bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create seed columns on an empty board",
		Long:  "Creates the configured seed columns when the board has none. --demo also adds an active sprint and sample cards.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBSeed(cmd, configPath, demo)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().BoolVar(&demo, "demo", false, "add a sample sprint and cards")
	return cmd
}

func runDBSeed(cmd *cobra.Command, configPath string, demo bool) error {
	cfg, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := seedColumns(out, gormDB, cfg.SeedColumns); err != nil {
		return err
	}
	if demo {
		n, err := seedDemo(gormDB)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Added %d demo cards\n", n)
	}
	return nil
}

func seedColumns(out io.Writer, gormDB *gorm.DB, seeds []config.SeedColumn) error {
	n, err := db.SeedColumns(gormDB, seeds)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(out, "Board already has columns, skipped seeding")
		return nil
	}
	fmt.Fprintf(out, "Seeded %d columns:", n)
	for _, s := range seeds {
		fmt.Fprintf(out, " %q", s.Title)
	}
	fmt.Fprintln(out)
	return nil
}

// seedDemo spreads a handful of cards over the first columns inside a new
// active sprint.
func seedDemo(gormDB *gorm.DB) (int, error) {
	var cols []models.Column
	if err := gormDB.Order("position ASC").Find(&cols).Error; err != nil {
		return 0, fmt.Errorf("seed demo: %w", err)
	}
	if len(cols) == 0 {
		return 0, fmt.Errorf("seed demo: %w: board has no columns", models.ErrInvalid)
	}
	s, err := sprint.Create(gormDB, sprint.CreateOpts{Name: "Demo sprint", Goal: "Try the board", Status: models.SprintActive})
	if err != nil {
		return 0, err
	}

	samples := []card.CreateOpts{
		{Title: "Sketch the landing page", Priority: "low", Labels: []string{"design"}, Hours: 2},
		{Title: "Wire up login", Priority: "high", Assignees: []string{"ana"}, Hours: 5},
		{Title: "Fix flaky upload test", Priority: "urgent", Labels: []string{"bug"}, Progress: 40},
		{Title: "Write release notes", Priority: models.DefaultPriority, Assignees: []string{"ben", "ana"}},
	}
	for i, opts := range samples {
		opts.ColumnID = cols[i%len(cols)].ID
		opts.SprintID = &s.ID
		if _, err := card.Create(gormDB, opts); err != nil {
			return i, err
		}
	}
	return len(samples), nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func confirmReset(out io.Writer, in io.Reader) bool {
	fmt.Fprintln(out, "WARNING: This will permanently delete every column, card, sprint and epic.")
	fmt.Fprintln(out, "This action cannot be undone.")
	fmt.Fprintln(out)
	fmt.Fprint(out, "Type \"yes\" to confirm: ")

	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()) == "yes"
	}
	return false
}
