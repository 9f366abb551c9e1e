package council

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// DefaultTailLimit is used when a caller asks for zero or fewer events.
const DefaultTailLimit = 50

const maxLineSize = 1 << 20

// Tail returns the last n parseable events in the JSON-lines file at path.
// Blank and malformed lines are skipped. A missing file yields no events.
func Tail(path string, n int) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Event{}, nil
		}
		return nil, fmt.Errorf("council: open event log: %w", err)
	}
	defer f.Close()

	events, err := tailReader(f, n)
	if err != nil {
		return nil, fmt.Errorf("council: read %s: %w", path, err)
	}
	return events, nil
}

func tailReader(r io.Reader, n int) ([]Event, error) {
	if n <= 0 {
		n = DefaultTailLimit
	}

	// Ring of the last n events.
	ring := make([]Event, 0, n)
	start := 0
	push := func(raw []byte) {
		line := strings.TrimSpace(string(raw))
		if line == "" || line[0] != '{' {
			return
		}
		var e Event
		if err := json.Unmarshal([]byte(line), &e); err != nil || e.Type == "" {
			return
		}
		if len(ring) < n {
			ring = append(ring, e)
			return
		}
		ring[start] = e
		start = (start + 1) % n
	}

	// Lines longer than maxLineSize are dropped whole; reading resumes at
	// the next newline.
	br := bufio.NewReaderSize(r, 64*1024)
	var buf []byte
	oversized := false
	for {
		frag, isPrefix, err := br.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !oversized {
			if len(buf)+len(frag) > maxLineSize {
				oversized = true
				buf = buf[:0]
			} else {
				buf = append(buf, frag...)
			}
		}
		if isPrefix {
			continue
		}
		if !oversized {
			push(buf)
		}
		buf = buf[:0]
		oversized = false
	}

	out := make([]Event, 0, len(ring))
	out = append(out, ring[start:]...)
	out = append(out, ring[:start]...)
	return out, nil
}
