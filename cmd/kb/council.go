package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tiXor-code/kanban-board/internal/council"
)

func newCouncilCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "council",
		Short: "Follow the model council",
	}

	cmd.AddCommand(newCouncilWatchCmd())
	cmd.AddCommand(newCouncilStatsCmd())
	return cmd
}

type watchOpts struct {
	file     string
	url      string
	mock     bool
	interval time.Duration
	limit    int
	once     bool
}

func newCouncilWatchCmd() *cobra.Command {
	var (
		configPath string
		opts       watchOpts
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print council status changes as they happen",
		Long: `Polls a running board server (or reads the event log directly with --file)
and prints each model's status transitions, round changes and the verdict.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.file == "" && !cmd.Flags().Changed("url") && !opts.mock {
				cfg, err := loadConfig(cmd, configPath)
				if err != nil {
					return err
				}
				opts.url = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
				opts.limit = cfg.Council.TailLimit
			}
			return runCouncilWatch(cmd, opts)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&opts.file, "file", "", "read this event log instead of a server")
	cmd.Flags().StringVar(&opts.url, "url", "http://localhost:8080", "board server base URL")
	cmd.Flags().BoolVar(&opts.mock, "mock", false, "replay the demo transcript from the server")
	cmd.Flags().DurationVar(&opts.interval, "interval", 2*time.Second, "poll interval")
	cmd.Flags().IntVar(&opts.limit, "limit", council.DefaultTailLimit, "events read per poll")
	cmd.Flags().BoolVar(&opts.once, "once", false, "poll once and exit")
	return cmd
}

func runCouncilWatch(cmd *cobra.Command, opts watchOpts) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fetch := func(ctx context.Context) ([]council.Event, error) {
		return council.Tail(opts.file, opts.limit)
	}
	if opts.file == "" {
		path := "/api/council/events"
		if opts.mock {
			path = "/api/council/mock"
		}
		endpoint := strings.TrimRight(opts.url, "/") + path
		if !opts.mock {
			endpoint += fmt.Sprintf("?limit=%d", opts.limit)
		}
		client := &http.Client{Timeout: 10 * time.Second}
		fetch = func(ctx context.Context) ([]council.Event, error) {
			return fetchEvents(ctx, client, endpoint)
		}
	}

	out := cmd.OutOrStdout()
	feed := council.NewFeed()
	tracker := council.NewTracker()
	poll := func() error {
		events, err := fetch(ctx)
		if err != nil {
			return err
		}
		for _, e := range feed.Filter(events) {
			printEvent(out, tracker, e)
		}
		return nil
	}

	if err := poll(); err != nil {
		return err
	}
	if opts.once {
		return nil
	}

	ticker := time.NewTicker(opts.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := poll(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "council: %v\n", err)
			}
		}
	}
}

func fetchEvents(ctx context.Context, client *http.Client, endpoint string) ([]council.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", endpoint, resp.Status)
	}
	var body struct {
		Events []council.Event `json:"events"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return body.Events, nil
}

func printEvent(out io.Writer, t *council.Tracker, e council.Event) {
	prevRound := t.Round()
	changes := t.Apply(e)

	switch e.Type {
	case council.TypeSessionStart:
		fmt.Fprintln(out, "Session started")
	case council.TypeRoundStart:
		if t.Round() != prevRound {
			fmt.Fprintf(out, "Round %d\n", t.Round())
		}
	}
	for _, c := range changes {
		fmt.Fprintf(out, "  %-10s %s -> %s\n", c.Model, c.From, c.To)
	}
	switch e.Type {
	case council.TypeResponse:
		fmt.Fprintf(out, "  %s: %s\n", e.Model, truncate(e.Content, 120))
	case council.TypeVote:
		fmt.Fprintf(out, "  %s votes %s (%.0f%%)\n", e.Model, e.Vote, e.Confidence*100)
	case council.TypeConsensus:
		fmt.Fprintf(out, "Verdict: %s\n", t.Verdict())
	}
}

func newCouncilStatsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print council cost and decision totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, configPath)
			if err != nil {
				return err
			}
			return runCouncilStats(cmd, cfg.Council.CostLog, cfg.Council.DecisionsDir)
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func runCouncilStats(cmd *cobra.Command, costLog, decisionsDir string) error {
	s, err := council.LoadStats(costLog, decisionsDir)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Sessions:        %d\n", s.Sessions)
	fmt.Fprintf(out, "Total cost:      $%.2f\n", s.TotalCostUSD)
	fmt.Fprintf(out, "Avg confidence:  %.0f%%\n", s.AvgConfidence*100)
	fmt.Fprintf(out, "Decisions:       %d\n", s.Decisions)
	if s.LatestDecision != "" {
		fmt.Fprintf(out, "Latest decision: %s\n", s.LatestDecision)
	}
	if len(s.Models) > 0 {
		names := make([]string, 0, len(s.Models))
		for m := range s.Models {
			names = append(names, m)
		}
		sort.Strings(names)
		fmt.Fprintln(out, "Models:")
		for _, m := range names {
			fmt.Fprintf(out, "  %-10s %d sessions\n", m, s.Models[m])
		}
	}
	return nil
}
