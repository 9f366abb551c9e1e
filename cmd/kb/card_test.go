package main

import (
	"strings"
	"testing"
)

func initBoard(t *testing.T) string {
	t.Helper()
	path := writeTestConfig(t, "")
	if _, err := runCmd(t, "", "db", "init", "-c", path); err != nil {
		t.Fatalf("db init: %v", err)
	}
	return path
}

func TestCardAddListMove(t *testing.T) {
	path := initBoard(t)

	out, err := runCmd(t, "", "card", "add", "Write docs", "--column", "to do",
		"--priority", "high", "--assignee", "ana,ben", "--due", "2026-04-01", "-c", path)
	if err != nil {
		t.Fatalf("card add: %v", err)
	}
	if !strings.Contains(out, `Created card #1 in "To Do" at position 0`) {
		t.Errorf("add output = %s", out)
	}
	if _, err := runCmd(t, "", "card", "add", "Ship", "--column", "To Do", "-c", path); err != nil {
		t.Fatalf("second card add: %v", err)
	}

	out, err = runCmd(t, "", "card", "list", "-c", path)
	if err != nil {
		t.Fatalf("card list: %v", err)
	}
	for _, want := range []string{"Write docs", "ana,ben", "2026-04-01", "high"} {
		if !strings.Contains(out, want) {
			t.Errorf("list missing %q: %s", want, out)
		}
	}

	out, err = runCmd(t, "", "card", "move", "2", "To Do", "--position", "0", "-c", path)
	if err != nil {
		t.Fatalf("card move: %v", err)
	}
	if !strings.Contains(out, `from "To Do" to "To Do" at position 0`) {
		t.Errorf("move output = %s", out)
	}

	out, err = runCmd(t, "", "card", "move", "1", "Done", "-c", path)
	if err != nil {
		t.Fatalf("card move to Done: %v", err)
	}
	if !strings.Contains(out, `to "Done" at position 0`) {
		t.Errorf("move output = %s", out)
	}

	out, _ = runCmd(t, "", "card", "list", "--column", "Done", "-c", path)
	if !strings.Contains(out, "Write docs") || strings.Contains(out, "Ship") {
		t.Errorf("Done column = %s", out)
	}
}

func TestCardAdd_Errors(t *testing.T) {
	path := initBoard(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown column", []string{"card", "add", "x", "--column", "Nope"}, "not found"},
		{"bad priority", []string{"card", "add", "x", "--column", "Backlog", "--priority", "asap"}, "priority"},
		{"bad due date", []string{"card", "add", "x", "--column", "Backlog", "--due", "tomorrow"}, "due"},
		{"bad card id", []string{"card", "move", "abc", "Done"}, "invalid card id"},
		{"missing card", []string{"card", "move", "99", "Done"}, "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCmd(t, "", append(tt.args, "-c", path)...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want to contain %q", err, tt.want)
			}
		})
	}
}

func TestBoardCmd_Stats(t *testing.T) {
	path := initBoard(t)
	if _, err := runCmd(t, "", "card", "add", "Late", "--column", "Backlog", "--due", "2020-01-01", "--hours", "3", "-c", path); err != nil {
		t.Fatalf("card add: %v", err)
	}
	out, err := runCmd(t, "", "board", "--stats", "-c", path)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	for _, want := range []string{"## Backlog (1)", "#1 Late", "1 cards, 3.0h estimated", "1 overdue"} {
		if !strings.Contains(out, want) {
			t.Errorf("board output missing %q: %s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcd…" {
		t.Errorf("truncate long = %q", got)
	}
}
