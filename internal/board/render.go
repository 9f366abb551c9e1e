package board

import (
	"fmt"
	"io"
	"strings"
)

// Render writes a plain-text view of the board, one section per column.
func Render(w io.Writer, b *Board) {
	if len(b.Columns) == 0 {
		fmt.Fprintln(w, "Board has no columns.")
		return
	}
	for i, col := range b.Columns {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "## %s (%d)\n", col.Title, len(col.Cards))
		if len(col.Cards) == 0 {
			fmt.Fprintln(w, "  (empty)")
			continue
		}
		for _, c := range col.Cards {
			line := fmt.Sprintf("  #%d %s [%s]", c.ID, c.Title, c.Priority)
			if len(c.Assignees) > 0 {
				line += " @" + strings.Join(c.Assignees, ", @")
			}
			if c.DueDate != nil {
				line += " due " + *c.DueDate
			}
			if c.Progress > 0 {
				line += fmt.Sprintf(" %d%%", c.Progress)
			}
			fmt.Fprintln(w, line)
		}
	}
}
