package council

// MockEvents returns the fixed demo transcript. Every call returns the same
// events in the same order.
func MockEvents() []Event {
	return []Event{
		{Timestamp: "2026-01-15T10:00:00Z", Type: TypeSessionStart, Content: "Should the board move to WebSocket updates?"},
		{Timestamp: "2026-01-15T10:00:01Z", Type: TypeRoundStart, Round: 1},
		{Timestamp: "2026-01-15T10:00:02Z", Model: "claude", Type: TypeThinking, Round: 1},
		{Timestamp: "2026-01-15T10:00:02Z", Model: "gpt", Type: TypeThinking, Round: 1},
		{Timestamp: "2026-01-15T10:00:03Z", Model: "gemini", Type: TypeThinking, Round: 1},
		{Timestamp: "2026-01-15T10:00:05Z", Model: "claude", Type: TypeResponse, Round: 1,
			Content: "Polling every two seconds is fine for a handful of users. Push only pays off with many concurrent editors."},
		{Timestamp: "2026-01-15T10:00:07Z", Model: "gpt", Type: TypeResponse, Round: 1,
			Content: "Drag conflicts are the real issue. Push would narrow the window but not close it without version checks."},
		{Timestamp: "2026-01-15T10:00:09Z", Model: "gemini", Type: TypeResponse, Round: 1,
			Content: "Start with server-sent events for the feed and keep REST for writes."},
		{Timestamp: "2026-01-15T10:00:10Z", Type: TypeRoundStart, Round: 2},
		{Timestamp: "2026-01-15T10:00:11Z", Model: "claude", Type: TypeThinking, Round: 2},
		{Timestamp: "2026-01-15T10:00:13Z", Model: "claude", Type: TypeResponse, Round: 2,
			Content: "Agreed on SSE. It reuses the existing HTTP stack and degrades to polling."},
		{Timestamp: "2026-01-15T10:00:14Z", Model: "gpt", Type: TypeThinking, Round: 2},
		{Timestamp: "2026-01-15T10:00:16Z", Model: "gpt", Type: TypeResponse, Round: 2,
			Content: "SSE for reads, with a version column added later if conflicts show up."},
		{Timestamp: "2026-01-15T10:00:18Z", Model: "claude", Type: TypeVote, Round: 2, Vote: "sse", Confidence: 0.82},
		{Timestamp: "2026-01-15T10:00:18Z", Model: "gpt", Type: TypeVote, Round: 2, Vote: "sse", Confidence: 0.74},
		{Timestamp: "2026-01-15T10:00:19Z", Model: "gemini", Type: TypeVote, Round: 2, Vote: "sse", Confidence: 0.9},
		{Timestamp: "2026-01-15T10:00:20Z", Type: TypeConsensus, Round: 2, Vote: "sse", Confidence: 0.82,
			Content: "Adopt server-sent events for live views; keep polling as the fallback."},
	}
}
