package council

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CostEntry is one record of the council cost log.
type CostEntry struct {
	Timestamp  string   `json:"timestamp"`
	Session    string   `json:"session"`
	CostUSD    float64  `json:"cost_usd"`
	Confidence float64  `json:"confidence"`
	Models     []string `json:"models"`
}

// Stats aggregates the cost log and the decisions directory.
type Stats struct {
	Sessions       int            `json:"sessions"`
	TotalCostUSD   float64        `json:"total_cost_usd"`
	AvgConfidence  float64        `json:"avg_confidence"`
	Decisions      int            `json:"decisions"`
	LatestDecision string         `json:"latest_decision"`
	Models         map[string]int `json:"models"`
}

// LoadStats reads the cost log (a JSON array of CostEntry) and counts the
// markdown files in decisionsDir. Missing inputs contribute zero values.
// The latest decision is the file name that sorts last.
func LoadStats(costLog, decisionsDir string) (*Stats, error) {
	s := &Stats{Models: map[string]int{}}

	entries, err := readCostLog(costLog)
	if err != nil {
		return nil, err
	}
	sessions := map[string]struct{}{}
	var confSum float64
	for i, e := range entries {
		id := e.Session
		if id == "" {
			id = fmt.Sprintf("#%d", i)
		}
		sessions[id] = struct{}{}
		s.TotalCostUSD += e.CostUSD
		confSum += e.Confidence
		for _, m := range e.Models {
			s.Models[m]++
		}
	}
	s.Sessions = len(sessions)
	if len(entries) > 0 {
		s.AvgConfidence = confSum / float64(len(entries))
	}

	decisions, err := listDecisions(decisionsDir)
	if err != nil {
		return nil, err
	}
	s.Decisions = len(decisions)
	if len(decisions) > 0 {
		s.LatestDecision = strings.TrimSuffix(decisions[len(decisions)-1], ".md")
	}
	return s, nil
}

func readCostLog(path string) ([]CostEntry, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("council: read cost log: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	var entries []CostEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("council: parse cost log %s: %w", path, err)
	}
	return entries, nil
}

func listDecisions(dir string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("council: read decisions dir: %w", err)
	}
	var names []string
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".md" {
			continue
		}
		names = append(names, de.Name())
	}
	sort.Strings(names)
	return names, nil
}
