// Package ghimport copies open GitHub issues onto the board as cards.
// Imported cards carry a Source of the form "github:owner/repo#N" so a
// repeated import skips issues already on the board.
package ghimport

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v68/github"
	"github.com/tiXor-code/kanban-board/internal/card"
	"github.com/tiXor-code/kanban-board/internal/models"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// Opts controls an import run.
type Opts struct {
	Owner    string
	Repo     string
	ColumnID uint
	State    string // open, closed or all; default open
	Labels   []string
	DryRun   bool
}

// Result summarizes an import run.
type Result struct {
	Created []models.Card
	Skipped int // already imported
	PRs     int // pull requests ignored
}

// NewClient returns a GitHub client. A non-empty token authenticates
// through an oauth2 static token source; a non-empty baseURL points the
// client at a GitHub Enterprise API or a test server.
func NewClient(ctx context.Context, token, baseURL string) (*github.Client, error) {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	}
	client := github.NewClient(httpClient)
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("ghimport: parse base url: %w", err)
		}
		client.BaseURL = u
	}
	return client, nil
}

// SplitRepo parses "owner/repo".
func SplitRepo(s string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("ghimport: %w: repository must be owner/repo, got %q", models.ErrInvalid, s)
	}
	return owner, repo, nil
}

// Source returns the card source reference for an issue.
func Source(owner, repo string, number int) string {
	return fmt.Sprintf("github:%s/%s#%d", owner, repo, number)
}

// Import pages through the repository's issues and creates a card for each
// one not yet on the board. Pull requests are skipped.
func Import(ctx context.Context, db *gorm.DB, client *github.Client, opts Opts) (*Result, error) {
	if opts.Owner == "" || opts.Repo == "" {
		return nil, fmt.Errorf("ghimport: %w: owner and repo are required", models.ErrInvalid)
	}
	if opts.ColumnID == 0 {
		return nil, fmt.Errorf("ghimport: %w: column is required", models.ErrInvalid)
	}
	state := opts.State
	if state == "" {
		state = "open"
	}

	existing, err := importedSources(db, opts.Owner, opts.Repo)
	if err != nil {
		return nil, err
	}

	listOpts := &github.IssueListByRepoOptions{
		State:       state,
		Labels:      opts.Labels,
		Sort:        "created",
		Direction:   "asc",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	res := &Result{Created: []models.Card{}}
	for {
		issues, resp, err := client.Issues.ListByRepo(ctx, opts.Owner, opts.Repo, listOpts)
		if err != nil {
			return res, fmt.Errorf("ghimport: list issues %s/%s: %w", opts.Owner, opts.Repo, err)
		}
		for _, issue := range issues {
			if issue.IsPullRequest() {
				res.PRs++
				continue
			}
			src := Source(opts.Owner, opts.Repo, issue.GetNumber())
			if existing[src] {
				res.Skipped++
				continue
			}
			cardOpts := cardFromIssue(issue, opts.ColumnID, src)
			if opts.DryRun {
				res.Created = append(res.Created, models.Card{
					ColumnID: cardOpts.ColumnID, Title: cardOpts.Title, Labels: cardOpts.Labels,
					Priority: cardOpts.Priority, Assignees: cardOpts.Assignees, Source: src,
				})
				existing[src] = true
				continue
			}
			c, err := card.Create(db, cardOpts)
			if err != nil {
				return res, fmt.Errorf("ghimport: create card for %s: %w", src, err)
			}
			res.Created = append(res.Created, *c)
			existing[src] = true
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		listOpts.Page = resp.NextPage
	}
	return res, nil
}

func importedSources(db *gorm.DB, owner, repo string) (map[string]bool, error) {
	var sources []string
	prefix := fmt.Sprintf("github:%s/%s#", owner, repo)
	if err := db.Model(&models.Card{}).Where("source LIKE ?", prefix+"%").Pluck("source", &sources).Error; err != nil {
		return nil, fmt.Errorf("ghimport: load imported sources: %w", err)
	}
	seen := make(map[string]bool, len(sources))
	for _, s := range sources {
		seen[s] = true
	}
	return seen, nil
}

// cardFromIssue maps an issue onto card fields. A label naming a priority
// ("urgent", "priority: high", "P-low") sets the card priority and is not
// copied as a label. The milestone due date becomes the card due date.
func cardFromIssue(issue *github.Issue, columnID uint, src string) card.CreateOpts {
	opts := card.CreateOpts{
		ColumnID:    columnID,
		Title:       issue.GetTitle(),
		Description: issue.GetBody(),
		Labels:      []string{},
		Assignees:   []string{},
		Source:      src,
	}
	for _, l := range issue.Labels {
		name := l.GetName()
		if p, ok := labelPriority(name); ok {
			opts.Priority = p
			continue
		}
		opts.Labels = append(opts.Labels, name)
	}
	for _, u := range issue.Assignees {
		opts.Assignees = append(opts.Assignees, u.GetLogin())
	}
	if len(opts.Assignees) == 0 && issue.Assignee != nil {
		opts.Assignees = append(opts.Assignees, issue.Assignee.GetLogin())
	}
	if m := issue.Milestone; m != nil && m.DueOn != nil {
		due := m.DueOn.Format(models.DateLayout)
		opts.DueDate = &due
	}
	return opts
}

func labelPriority(label string) (string, bool) {
	l := strings.ToLower(strings.TrimSpace(label))
	for _, prefix := range []string{"priority:", "priority/", "priority-", "p-", "p:"} {
		if strings.HasPrefix(l, prefix) {
			l = strings.TrimSpace(strings.TrimPrefix(l, prefix))
			break
		}
	}
	if models.ValidPriority(l) {
		return l, true
	}
	return "", false
}
