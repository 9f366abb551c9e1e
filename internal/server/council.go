package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tiXor-code/kanban-board/internal/council"
)

// maxTailLimit caps ?limit= on the council endpoints.
const maxTailLimit = 1000

// tailLimit reads ?limit=, falling back to the configured default.
func (a *api) tailLimit(c *gin.Context) int {
	limit := a.cfg.Council.TailLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxTailLimit {
		limit = maxTailLimit
	}
	return limit
}

// tail reads the event log. Read failures are logged and yield no events.
func (a *api) tail(limit int) []council.Event {
	events, err := council.Tail(a.cfg.Council.EventLog, limit)
	if err != nil {
		log.Printf("server: council tail: %v", err)
		return []council.Event{}
	}
	return events
}

func (a *api) councilEvents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"events": a.tail(a.tailLimit(c))})
}

func (a *api) councilMock(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"events": council.MockEvents()})
}

func (a *api) councilStats(c *gin.Context) {
	stats, err := council.LoadStats(a.cfg.Council.CostLog, a.cfg.Council.DecisionsDir)
	if err != nil {
		log.Printf("server: council stats: %v", err)
		stats = &council.Stats{Models: map[string]int{}}
	}
	c.JSON(http.StatusOK, stats)
}

// councilStream pushes unseen events from the log (or the mock transcript
// with ?mock=1) as SSE "council" events, plus a periodic heartbeat.
func (a *api) councilStream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	writeSSE(c.Writer, "connected", map[string]string{"type": "connected"})
	c.Writer.Flush()

	mock := c.Query("mock") == "1" || c.Query("mock") == "true"
	limit := a.tailLimit(c)
	feed := council.NewFeed()
	push := func() {
		batch := council.MockEvents()
		if !mock {
			batch = a.tail(limit)
		}
		if fresh := feed.Filter(batch); len(fresh) > 0 {
			writeSSE(c.Writer, "council", fresh)
			c.Writer.Flush()
		}
	}
	push()

	ctx := c.Request.Context()
	ticker := time.NewTicker(a.streamInt)
	heartbeat := time.NewTicker(a.heartbeat)
	defer ticker.Stop()
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			writeSSE(c.Writer, "heartbeat", map[string]string{
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
			c.Writer.Flush()
		case <-ticker.C:
			push()
		}
	}
}

// writeSSE writes a single SSE event to the writer.
func writeSSE(w io.Writer, event string, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, string(jsonData))
}
