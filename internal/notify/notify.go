// Package notify posts board activity to chat channels. Sends are
// fire-and-forget: failures are logged and never reach the caller.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tiXor-code/kanban-board/internal/config"
	"github.com/tiXor-code/kanban-board/internal/models"
)

// SendTimeout bounds each background send.
const SendTimeout = 10 * time.Second

// Field is a short name/value pair rendered alongside a message.
type Field struct {
	Name  string
	Value string
	Short bool
}

// Message is a chat-agnostic notification.
type Message struct {
	Title  string
	Body   string
	Color  string // hex, e.g. "#3b82f6"
	Fields []Field
}

// Notifier delivers a Message to one chat platform.
type Notifier interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Multi fans a message out to every notifier and joins their errors.
type Multi []Notifier

// Name implements Notifier.
func (m Multi) Name() string {
	names := make([]string, 0, len(m))
	for _, n := range m {
		names = append(names, n.Name())
	}
	return strings.Join(names, ",")
}

// Send implements Notifier.
func (m Multi) Send(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range m {
		if err := n.Send(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// FromConfig builds notifiers for every enabled chat platform. It returns
// nil when none is configured.
func FromConfig(cfg config.NotifyConfig) (Notifier, error) {
	var m Multi
	if cfg.Slack.Enabled() {
		m = append(m, NewSlack(cfg.Slack.BotToken, cfg.Slack.Channel))
	}
	if cfg.Discord.Enabled() {
		d, err := NewDiscord(cfg.Discord.BotToken, cfg.Discord.Channel)
		if err != nil {
			return nil, err
		}
		m = append(m, d)
	}
	if len(m) == 0 {
		return nil, nil
	}
	return m, nil
}

// Dispatch sends msg on a background goroutine with SendTimeout. A nil
// notifier is a no-op. The returned channel closes when the send finishes.
func Dispatch(n Notifier, msg Message) <-chan struct{} {
	done := make(chan struct{})
	if n == nil {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), SendTimeout)
		defer cancel()
		if err := n.Send(ctx, msg); err != nil {
			log.Printf("notify: %s: %v", n.Name(), err)
		}
	}()
	return done
}

// CardMoved formats a card moving between columns. from and to are column
// titles; when they match the card was reordered within its column.
func CardMoved(c models.Card, from, to string) Message {
	msg := Message{
		Title: fmt.Sprintf("Card #%d moved", c.ID),
		Body:  c.Title,
		Color: priorityColor(c.Priority),
	}
	if from != to {
		msg.Body = fmt.Sprintf("%s\n%s → %s", c.Title, from, to)
	} else {
		msg.Title = fmt.Sprintf("Card #%d reordered", c.ID)
	}
	msg.Fields = append(msg.Fields, Field{Name: "Priority", Value: c.Priority, Short: true})
	if len(c.Assignees) > 0 {
		msg.Fields = append(msg.Fields, Field{Name: "Assignees", Value: strings.Join(c.Assignees, ", "), Short: true})
	}
	return msg
}

// CommentAdded formats a new comment on a card.
func CommentAdded(c models.Card, cm models.Comment) Message {
	return Message{
		Title: fmt.Sprintf("%s commented on #%d %s", cm.Author, c.ID, c.Title),
		Body:  truncate(cm.Body, 500),
		Color: "#64748b",
	}
}

func priorityColor(p string) string {
	switch p {
	case "urgent":
		return "#dc2626"
	case "high":
		return "#f59e0b"
	case "low":
		return "#22c55e"
	default:
		return "#3b82f6"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
