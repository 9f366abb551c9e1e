package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tiXor-code/kanban-board/internal/card"
	"github.com/tiXor-code/kanban-board/internal/column"
	"github.com/tiXor-code/kanban-board/internal/models"
	"github.com/tiXor-code/kanban-board/internal/notify"
)

// endOfColumn is clamped by card.Move to the column's length.
const endOfColumn = 1 << 30

func newCardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Card management commands",
	}

	cmd.AddCommand(newCardListCmd())
	cmd.AddCommand(newCardAddCmd())
	cmd.AddCommand(newCardMoveCmd())
	return cmd
}

func newCardListCmd() *cobra.Command {
	var (
		configPath string
		col        string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards",
		Long:  "Lists cards ordered by column and position. Output is formatted as a table.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCardList(cmd, configPath, col)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&col, "column", "", "only cards in this column (id or title)")
	return cmd
}

func runCardList(cmd *cobra.Command, configPath, colRef string) error {
	_, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}

	cols, err := column.List(gormDB)
	if err != nil {
		return err
	}
	titles := make(map[uint]string, len(cols))
	for _, c := range cols {
		titles[c.ID] = c.Title
	}

	var filters card.ListFilters
	if colRef != "" {
		c, err := column.Resolve(gormDB, colRef)
		if err != nil {
			return err
		}
		filters.ColumnID = c.ID
	}
	cards, err := card.List(gormDB, filters)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(cards) == 0 {
		fmt.Fprintln(out, "No cards found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOLUMN\tPOS\tPRIORITY\tTITLE\tASSIGNEES\tDUE")
	for _, c := range cards {
		due := "-"
		if c.DueDate != nil {
			due = *c.DueDate
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\t%s\n",
			c.ID, titles[c.ColumnID], c.Position, c.Priority, truncate(c.Title, 50),
			strings.Join(c.Assignees, ","), due)
	}
	return w.Flush()
}

func newCardAddCmd() *cobra.Command {
	var (
		configPath  string
		col         string
		description string
		priority    string
		labels      []string
		assignees   []string
		due         string
		hours       float64
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a card to the end of a column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := card.CreateOpts{
				Title:       args[0],
				Description: description,
				Priority:    priority,
				Labels:      labels,
				Assignees:   assignees,
				Hours:       hours,
			}
			if due != "" {
				opts.DueDate = &due
			}
			return runCardAdd(cmd, configPath, col, opts)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&col, "column", "", "target column, id or title (required)")
	cmd.Flags().StringVar(&description, "description", "", "card description")
	cmd.Flags().StringVar(&priority, "priority", models.DefaultPriority, "low, medium, high or urgent")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "label (repeatable or comma separated)")
	cmd.Flags().StringSliceVar(&assignees, "assignee", nil, "assignee (repeatable or comma separated)")
	cmd.Flags().StringVar(&due, "due", "", "due date, YYYY-MM-DD")
	cmd.Flags().Float64Var(&hours, "hours", 0, "estimated hours")
	cmd.MarkFlagRequired("column")
	return cmd
}

func runCardAdd(cmd *cobra.Command, configPath, colRef string, opts card.CreateOpts) error {
	_, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}
	col, err := column.Resolve(gormDB, colRef)
	if err != nil {
		return err
	}
	opts.ColumnID = col.ID

	c, err := card.Create(gormDB, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created card #%d in %q at position %d\n", c.ID, col.Title, c.Position)
	return nil
}

func newCardMoveCmd() *cobra.Command {
	var (
		configPath string
		position   int
	)

	cmd := &cobra.Command{
		Use:   "move <card-id> <column>",
		Short: "Move a card to a column",
		Long:  "Moves a card into a column (id or title) at --position, or to the end when omitted.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid card id %q", args[0])
			}
			if !cmd.Flags().Changed("position") {
				position = endOfColumn
			}
			return runCardMove(cmd, configPath, uint(id), args[1], position)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().IntVar(&position, "position", 0, "0-based index in the target column")
	return cmd
}

func runCardMove(cmd *cobra.Command, configPath string, cardID uint, colRef string, position int) error {
	cfg, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}
	to, err := column.Resolve(gormDB, colRef)
	if err != nil {
		return err
	}
	res, err := card.Move(gormDB, card.MoveOpts{CardID: cardID, ColumnID: to.ID, Position: position})
	if err != nil {
		return err
	}

	from := to
	if res.FromColumnID != to.ID {
		if from, err = column.Get(gormDB, res.FromColumnID); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Moved card #%d from %q to %q at position %d\n",
		cardID, from.Title, to.Title, res.Card.Position)

	notifier, err := notify.FromConfig(cfg.Notify)
	if err != nil {
		return err
	}
	<-notify.Dispatch(notifier, notify.CardMoved(res.Card, from.Title, to.Title))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
