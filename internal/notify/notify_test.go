package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	slackapi "github.com/slack-go/slack"
	"github.com/tiXor-code/kanban-board/internal/config"
	"github.com/tiXor-code/kanban-board/internal/models"
)

// --- Mocks ---

type mockNotifier struct {
	mu   sync.Mutex
	name string
	err  error
	sent []Message
	ctx  context.Context
}

func (m *mockNotifier) Name() string { return m.name }

func (m *mockNotifier) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctx = ctx
	m.sent = append(m.sent, msg)
	return m.err
}

type mockSlackPoster struct {
	calls   int
	errs    []error
	channel string
	options []slackapi.MsgOption
}

func (m *mockSlackPoster) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	m.calls++
	m.channel = channelID
	m.options = options
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return "", "", err
	}
	return channelID, "1700000000.000100", nil
}

type mockDiscordSender struct {
	channel string
	data    *discordgo.MessageSend
	opts    int
	err     error
}

func (m *mockDiscordSender) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.channel = channelID
	m.data = data
	m.opts = len(options)
	return &discordgo.Message{ID: "1"}, m.err
}

// --- Formatting ---

func TestCardMoved(t *testing.T) {
	c := models.Card{ID: 7, Title: "Fix login", Priority: "urgent", Assignees: models.StringList{"ana", "bo"}}

	msg := CardMoved(c, "To Do", "Done")
	if msg.Title != "Card #7 moved" {
		t.Errorf("Title = %q", msg.Title)
	}
	if !strings.Contains(msg.Body, "To Do → Done") {
		t.Errorf("Body = %q", msg.Body)
	}
	if msg.Color != "#dc2626" {
		t.Errorf("Color = %q", msg.Color)
	}
	if len(msg.Fields) != 2 || msg.Fields[1].Value != "ana, bo" {
		t.Errorf("Fields = %+v", msg.Fields)
	}

	same := CardMoved(c, "Done", "Done")
	if same.Title != "Card #7 reordered" || same.Body != "Fix login" {
		t.Errorf("reorder = %+v", same)
	}
}

func TestCommentAdded(t *testing.T) {
	c := models.Card{ID: 3, Title: "Docs"}
	long := strings.Repeat("x", 600)
	msg := CommentAdded(c, models.Comment{Author: "kim", Body: long})
	if msg.Title != "kim commented on #3 Docs" {
		t.Errorf("Title = %q", msg.Title)
	}
	if len([]rune(msg.Body)) != 501 {
		t.Errorf("body length = %d, want truncated to 500 plus ellipsis", len([]rune(msg.Body)))
	}
}

// --- Multi / Dispatch ---

func TestMulti_SendJoinsErrors(t *testing.T) {
	ok := &mockNotifier{name: "ok"}
	bad := &mockNotifier{name: "bad", err: errors.New("boom")}
	m := Multi{ok, bad}

	err := m.Send(context.Background(), Message{Title: "hi"})
	if err == nil || !strings.Contains(err.Error(), "bad: boom") {
		t.Fatalf("err = %v", err)
	}
	if len(ok.sent) != 1 || len(bad.sent) != 1 {
		t.Errorf("every notifier should be attempted")
	}
	if m.Name() != "ok,bad" {
		t.Errorf("Name = %q", m.Name())
	}
}

func TestDispatch(t *testing.T) {
	n := &mockNotifier{name: "mock", err: errors.New("ignored")}
	select {
	case <-Dispatch(n, Message{Title: "x"}):
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not finish")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(n.sent))
	}
	if _, ok := n.ctx.Deadline(); !ok {
		t.Error("send context has no deadline")
	}
}

func TestDispatch_NilNotifier(t *testing.T) {
	select {
	case <-Dispatch(nil, Message{}):
	default:
		t.Fatal("nil dispatch should complete immediately")
	}
}

func TestFromConfig(t *testing.T) {
	n, err := FromConfig(config.NotifyConfig{})
	if err != nil || n != nil {
		t.Fatalf("empty config = %v, %v; want nil, nil", n, err)
	}

	n, err = FromConfig(config.NotifyConfig{
		Slack:   config.ChatConfig{BotToken: "xoxb-1", Channel: "C1"},
		Discord: config.ChatConfig{BotToken: "abc", Channel: "123"},
	})
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if n.Name() != "slack,discord" {
		t.Errorf("Name = %q", n.Name())
	}
}

// --- Slack ---

func TestSlack_Send(t *testing.T) {
	poster := &mockSlackPoster{}
	s := &Slack{client: poster, channel: "C42"}

	msg := Message{Title: "Card #1 moved", Body: "a → b", Color: "#3b82f6", Fields: []Field{{Name: "Priority", Value: "high", Short: true}}}
	if err := s.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if poster.channel != "C42" {
		t.Errorf("channel = %q", poster.channel)
	}

	_, values, err := slackapi.UnsafeApplyMsgOptions("token", "C42", "https://slack.test/api/", poster.options...)
	if err != nil {
		t.Fatalf("apply options: %v", err)
	}
	if values.Get("text") != "Card #1 moved" {
		t.Errorf("text = %q", values.Get("text"))
	}
	if att := values.Get("attachments"); !strings.Contains(att, `"Priority"`) || !strings.Contains(att, "#3b82f6") {
		t.Errorf("attachments = %s", att)
	}
}

func TestSlack_RetriesRateLimit(t *testing.T) {
	poster := &mockSlackPoster{errs: []error{
		&slackapi.RateLimitedError{RetryAfter: time.Millisecond},
		&slackapi.RateLimitedError{RetryAfter: time.Millisecond},
	}}
	s := &Slack{client: poster, channel: "C1"}
	if err := s.Send(context.Background(), Message{Title: "x"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if poster.calls != 3 {
		t.Errorf("calls = %d, want 3", poster.calls)
	}
}

func TestSlack_NonRateLimitErrorNotRetried(t *testing.T) {
	poster := &mockSlackPoster{errs: []error{errors.New("channel_not_found")}}
	s := &Slack{client: poster, channel: "C1"}
	err := s.Send(context.Background(), Message{Title: "x"})
	if err == nil || !strings.Contains(err.Error(), "channel_not_found") {
		t.Fatalf("err = %v", err)
	}
	if poster.calls != 1 {
		t.Errorf("calls = %d, want 1", poster.calls)
	}
}

func TestRetrySlack_ExhaustsRetries(t *testing.T) {
	calls := 0
	err := retrySlack(context.Background(), func() error {
		calls++
		return &slackapi.RateLimitedError{RetryAfter: time.Millisecond}
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != maxRetries+1 {
		t.Errorf("calls = %d, want %d", calls, maxRetries+1)
	}
}

func TestRetrySlack_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := retrySlack(ctx, func() error {
		return &slackapi.RateLimitedError{RetryAfter: time.Second}
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

// --- Discord ---

func TestDiscord_Send(t *testing.T) {
	sender := &mockDiscordSender{}
	d := &Discord{sess: sender, channel: "998"}

	msg := Message{Title: "t", Body: "b", Color: "#36a64f", Fields: []Field{{Name: "Priority", Value: "low", Short: true}}}
	if err := d.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if sender.channel != "998" || sender.opts != 1 {
		t.Errorf("channel = %q opts = %d", sender.channel, sender.opts)
	}
	if len(sender.data.Embeds) != 1 {
		t.Fatalf("embeds = %d", len(sender.data.Embeds))
	}
	e := sender.data.Embeds[0]
	if e.Title != "t" || e.Description != "b" || e.Color != 0x36a64f {
		t.Errorf("embed = %+v", e)
	}
	if len(e.Fields) != 1 || !e.Fields[0].Inline {
		t.Errorf("fields = %+v", e.Fields)
	}
}

func TestDiscord_SendError(t *testing.T) {
	d := &Discord{sess: &mockDiscordSender{err: errors.New("403")}, channel: "1"}
	if err := d.Send(context.Background(), Message{}); err == nil || !strings.HasPrefix(err.Error(), "discord:") {
		t.Errorf("err = %v", err)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"#36a64f", 0x36a64f},
		{"FFFFFF", 0xffffff},
		{"#000", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := parseHexColor(tt.in); got != tt.want {
			t.Errorf("parseHexColor(%q) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}
