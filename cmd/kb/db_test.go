package main

import (
	"strings"
	"testing"
)

func TestDBCmd_Help(t *testing.T) {
	out, err := runCmd(t, "", "db", "--help")
	if err != nil {
		t.Fatalf("db --help failed: %v", err)
	}
	for _, sub := range []string{"init", "reset", "seed"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected help to list %q, got: %s", sub, out)
		}
	}
}

func TestDBInit_SeedsOnce(t *testing.T) {
	path := writeTestConfig(t, "")

	out, err := runCmd(t, "", "db", "init", "-c", path)
	if err != nil {
		t.Fatalf("db init: %v", err)
	}
	if !strings.Contains(out, "Seeded 5 columns") {
		t.Errorf("first init output = %s", out)
	}

	out, err = runCmd(t, "", "db", "init", "-c", path)
	if err != nil {
		t.Fatalf("second db init: %v", err)
	}
	if !strings.Contains(out, "skipped seeding") {
		t.Errorf("second init output = %s", out)
	}
}

func TestDBInit_CustomSeedColumns(t *testing.T) {
	path := writeTestConfig(t, "seed_columns:\n  - title: Inbox\n  - title: Shipped\n")
	if _, err := runCmd(t, "", "db", "init", "-c", path); err != nil {
		t.Fatalf("db init: %v", err)
	}
	out, err := runCmd(t, "", "board", "-c", path)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if !strings.Contains(out, "## Inbox (0)") || !strings.Contains(out, "## Shipped (0)") {
		t.Errorf("board output = %s", out)
	}
}

func TestDBReset_RequiresYesWithoutTerminal(t *testing.T) {
	path := writeTestConfig(t, "")
	_, err := runCmd(t, "yes\n", "db", "reset", "-c", path)
	if err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Fatalf("err = %v, want --yes hint", err)
	}
}

func TestDBReset_Yes(t *testing.T) {
	path := writeTestConfig(t, "")
	if _, err := runCmd(t, "", "db", "init", "-c", path); err != nil {
		t.Fatalf("db init: %v", err)
	}
	if _, err := runCmd(t, "", "card", "add", "doomed", "--column", "Backlog", "-c", path); err != nil {
		t.Fatalf("card add: %v", err)
	}

	out, err := runCmd(t, "", "db", "reset", "--yes", "-c", path)
	if err != nil {
		t.Fatalf("db reset: %v", err)
	}
	if !strings.Contains(out, "reset successfully") {
		t.Errorf("reset output = %s", out)
	}

	out, _ = runCmd(t, "", "card", "list", "-c", path)
	if !strings.Contains(out, "No cards found.") {
		t.Errorf("cards survived reset: %s", out)
	}
}

func TestDBSeed_Demo(t *testing.T) {
	path := writeTestConfig(t, "")
	out, err := runCmd(t, "", "db", "seed", "--demo", "-c", path)
	if err != nil {
		t.Fatalf("db seed: %v", err)
	}
	if !strings.Contains(out, "Added 4 demo cards") {
		t.Errorf("seed output = %s", out)
	}
}

func TestConfirmReset(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"yes\n", true},
		{"  yes  \n", true},
		{"y\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out strings.Builder
		if got := confirmReset(&out, strings.NewReader(tt.input)); got != tt.want {
			t.Errorf("confirmReset(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
