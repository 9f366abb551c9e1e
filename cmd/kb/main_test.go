package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCmd executes the root command with args and returns combined output.
func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// writeTestConfig writes a config pointing at a fresh SQLite file and
// returns its path.
func writeTestConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "kanban.yaml")
	body := "database:\n  url: sqlite://" + filepath.Join(dir, "board.db") + "\n" + extra
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("KANBAN_DATABASE_URL", "")
	t.Setenv("DATABASE_URL", "")
	return path
}

func TestVersionCmd(t *testing.T) {
	out, err := runCmd(t, "", "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(out, "kb dev") {
		t.Errorf("expected output to contain 'kb dev', got: %s", out)
	}
	if !strings.Contains(out, "commit: none") {
		t.Errorf("expected output to contain 'commit: none', got: %s", out)
	}
}

func TestVersionCmdWithCustomValues(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, Date
	Version, Commit, Date = "1.0.0", "abc123", "2026-01-01"
	defer func() { Version, Commit, Date = origVersion, origCommit, origDate }()

	out, err := runCmd(t, "", "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	for _, want := range []string{"kb 1.0.0", "commit: abc123", "built: 2026-01-01"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got: %s", want, out)
		}
	}
}

func TestRootCmdHelp(t *testing.T) {
	out, err := runCmd(t, "", "--help")
	if err != nil {
		t.Fatalf("--help failed: %v", err)
	}
	for _, sub := range []string{"serve", "db", "card", "board", "council", "import", "mcp", "version"} {
		if !strings.Contains(out, sub) {
			t.Errorf("help does not list %q: %s", sub, out)
		}
	}
}

func TestExplicitMissingConfig(t *testing.T) {
	_, err := runCmd(t, "", "board", "--config", "/nonexistent/kanban.yaml")
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
	if !strings.Contains(err.Error(), "load config") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "load config")
	}
}

func TestInvalidConfig(t *testing.T) {
	path := writeTestConfig(t, "server:\n  port: 70000\n")
	_, err := runCmd(t, "", "board", "-c", path)
	if err == nil || !strings.Contains(err.Error(), "server.port") {
		t.Fatalf("err = %v, want port validation error", err)
	}
}

func TestEnvOverridesConfigDatabase(t *testing.T) {
	path := writeTestConfig(t, "")
	envDB := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("KANBAN_DATABASE_URL", "sqlite://"+envDB)

	if _, err := runCmd(t, "", "db", "init", "-c", path); err != nil {
		t.Fatalf("db init: %v", err)
	}
	if _, err := os.Stat(envDB); err != nil {
		t.Errorf("database from KANBAN_DATABASE_URL was not created: %v", err)
	}
}
