package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tiXor-code/kanban-board/internal/council"
)

func TestCouncilWatch_File(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "events.jsonl")
	lines := []string{
		`{"timestamp":"t1","type":"session_start"}`,
		`{"timestamp":"t2","type":"round_start","round":1}`,
		`{"timestamp":"t3","model":"claude","type":"thinking"}`,
		`{"timestamp":"t4","model":"claude","type":"response","content":"Use SSE."}`,
		`{"timestamp":"t5","model":"claude","type":"vote","vote":"sse","confidence":0.9}`,
		`{"timestamp":"t6","type":"consensus","content":"Adopt SSE"}`,
	}
	if err := os.WriteFile(logPath, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCmd(t, "", "council", "watch", "--file", logPath, "--once")
	if err != nil {
		t.Fatalf("council watch: %v", err)
	}
	for _, want := range []string{
		"Session started",
		"Round 1",
		"claude     idle -> thinking",
		"claude     thinking -> speaking",
		"claude: Use SSE.",
		"claude votes sse (90%)",
		"Verdict: Adopt SSE",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("watch output missing %q:\n%s", want, out)
		}
	}
}

func TestCouncilWatch_Server(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{"events": council.MockEvents()})
	}))
	defer srv.Close()

	out, err := runCmd(t, "", "council", "watch", "--url", srv.URL, "--mock", "--once")
	if err != nil {
		t.Fatalf("council watch: %v", err)
	}
	if gotPath != "/api/council/mock" {
		t.Errorf("path = %q, want /api/council/mock", gotPath)
	}
	if !strings.Contains(out, "Verdict:") || !strings.Contains(out, "server-sent events") {
		t.Errorf("watch output = %s", out)
	}
}

func TestFetchEvents_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := fetchEvents(context.Background(), srv.Client(), srv.URL+"/api/council/events")
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Fatalf("err = %v, want 500 status", err)
	}
}

func TestCouncilStats(t *testing.T) {
	dir := t.TempDir()
	costLog := filepath.Join(dir, "costs.json")
	costs := `[{"session":"a","cost_usd":0.5,"confidence":0.8,"models":["claude","gpt"]},
	           {"session":"b","cost_usd":0.25,"confidence":0.6,"models":["claude"]}]`
	if err := os.WriteFile(costLog, []byte(costs), 0o644); err != nil {
		t.Fatal(err)
	}
	decisions := filepath.Join(dir, "decisions")
	if err := os.Mkdir(decisions, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"2026-01-01-cache.md", "2026-02-01-sse.md"} {
		if err := os.WriteFile(filepath.Join(decisions, name), []byte("# d\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfgPath := filepath.Join(dir, "kanban.yaml")
	cfg := "council:\n  cost_log: " + costLog + "\n  decisions_dir: " + decisions + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCmd(t, "", "council", "stats", "-c", cfgPath)
	if err != nil {
		t.Fatalf("council stats: %v", err)
	}
	for _, want := range []string{
		"Sessions:        2",
		"Total cost:      $0.75",
		"Avg confidence:  70%",
		"Decisions:       2",
		"Latest decision: 2026-02-01-sse",
		"claude     2 sessions",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}
