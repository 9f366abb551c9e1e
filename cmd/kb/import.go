package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tiXor-code/kanban-board/internal/column"
	"github.com/tiXor-code/kanban-board/internal/ghimport"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import cards from other trackers",
	}

	cmd.AddCommand(newImportGitHubCmd())
	return cmd
}

func newImportGitHubCmd() *cobra.Command {
	var (
		configPath string
		col        string
		state      string
		labels     []string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "github <owner/repo>",
		Short: "Create cards from GitHub issues",
		Long: `Creates one card per issue in the target column. Issues already imported
are skipped, so the command can be re-run. Pull requests are ignored.

The token comes from github.token in the config file or GITHUB_TOKEN.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportGitHub(cmd, configPath, args[0], col, ghimport.Opts{
				State:  state,
				Labels: labels,
				DryRun: dryRun,
			})
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&col, "column", "", "target column, id or title (required)")
	cmd.Flags().StringVar(&state, "state", "open", "issue state: open, closed or all")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "only issues with these labels")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be imported without writing")
	cmd.MarkFlagRequired("column")
	return cmd
}

func runImportGitHub(cmd *cobra.Command, configPath, repoRef, colRef string, opts ghimport.Opts) error {
	owner, repo, err := ghimport.SplitRepo(repoRef)
	if err != nil {
		return err
	}
	opts.Owner, opts.Repo = owner, repo

	cfg, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}
	col, err := column.Resolve(gormDB, colRef)
	if err != nil {
		return err
	}
	opts.ColumnID = col.ID

	token := cfg.GitHub.Token
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	client, err := ghimport.NewClient(cmd.Context(), token, cfg.GitHub.BaseURL)
	if err != nil {
		return err
	}

	res, err := ghimport.Import(cmd.Context(), gormDB, client, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	verb := "Imported"
	if opts.DryRun {
		verb = "Would import"
	}
	for _, c := range res.Created {
		fmt.Fprintf(out, "  %s  %s\n", c.Source, c.Title)
	}
	fmt.Fprintf(out, "%s %d issues into %q (%d already imported, %d pull requests skipped)\n",
		verb, len(res.Created), col.Title, res.Skipped, res.PRs)
	return nil
}
