// Package council reads the debate event log behind the council page and
// reduces it to per-model status for display.
package council

// Event types.
const (
	TypeSessionStart = "session_start"
	TypeRoundStart   = "round_start"
	TypeThinking     = "thinking"
	TypeResponse     = "response"
	TypeVote         = "vote"
	TypeConsensus    = "consensus"
)

// Event is one line of the council event log.
type Event struct {
	Timestamp  string  `json:"timestamp"`
	Model      string  `json:"model,omitempty"`
	Type       string  `json:"type"`
	Content    string  `json:"content,omitempty"`
	Round      int     `json:"round,omitempty"`
	Vote       string  `json:"vote,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Key identifies an event across polls.
func Key(e Event) string {
	return e.Timestamp + "|" + e.Model + "|" + e.Type
}

// Feed drops events it has already returned. Not safe for concurrent use.
type Feed struct {
	seen map[string]struct{}
}

// NewFeed returns an empty Feed.
func NewFeed() *Feed {
	return &Feed{seen: make(map[string]struct{})}
}

// Filter returns the events of batch not seen before, in order, and marks
// them seen.
func (f *Feed) Filter(batch []Event) []Event {
	fresh := make([]Event, 0, len(batch))
	for _, e := range batch {
		k := Key(e)
		if _, ok := f.seen[k]; ok {
			continue
		}
		f.seen[k] = struct{}{}
		fresh = append(fresh, e)
	}
	return fresh
}

func (f *Feed) seenCount() int { return len(f.seen) }
