package notify

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/leadrelay/core/logger"
	"github.com/m3rciful/leadrelay/submission"
)

func TestMain(m *testing.M) {
	_ = logger.InitLogger(nil)
	code := m.Run()
	_ = logger.Shutdown()
	os.Exit(code)
}

type fakeSender struct {
	to   tele.Recipient
	text string
	opts []interface{}
	err  error
}

func (f *fakeSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	f.to = to
	f.text, _ = what.(string)
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return &tele.Message{}, nil
}

func sampleFields() []submission.Field {
	return []submission.Field{
		{Key: "name", Value: "Jo"},
		{Key: "email", Value: "jo@x.io"},
		{Key: "phone", Value: submission.NotProvided},
		{Key: "course_interest", Value: "IELTS"},
	}
}

func TestRenderFormat(t *testing.T) {
	text := Render(sampleFields())

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	want := []string{
		"📬 *New Form Submission!*",
		"",
		"*Name:* Jo",
		"*Email:* jo@x.io",
		"*Phone:* Not provided",
		"*Course Interest:* IELTS",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(lines), text)
	}
	for i, w := range want {
		if lines[i] != w {
			t.Fatalf("line %d = %q, expected %q", i, lines[i], w)
		}
	}
}

func TestRenderMultibyteFieldLabel(t *testing.T) {
	text := Render([]submission.Field{{Key: "имя_участника", Value: "Jo"}})
	if !strings.Contains(text, "*Имя Участника:* Jo") {
		t.Fatalf("multibyte key not capitalized per rune:\n%s", text)
	}
}

func TestRenderEscapesValues(t *testing.T) {
	text := Render([]submission.Field{{Key: "name", Value: "Jo *the* _Great_"}})
	if !strings.Contains(text, `Jo \*the\* \_Great\_`) {
		t.Fatalf("markdown specials not escaped:\n%s", text)
	}
}

func TestNotifyTargetsRecipient(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(sender, -100123)

	if err := n.Notify(context.Background(), sampleFields()); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if sender.to != tele.ChatID(-100123) {
		t.Fatalf("sent to %v, expected fixed chat", sender.to)
	}
	markdown := false
	for _, opt := range sender.opts {
		if opt == tele.ModeMarkdown {
			markdown = true
		}
	}
	if !markdown {
		t.Fatal("expected Markdown parse mode")
	}
}

func TestNotifyPropagatesSendError(t *testing.T) {
	sendErr := errors.New("telegram: 403")
	sender := &fakeSender{err: sendErr}
	n := NewNotifier(sender, 7)

	err := n.Notify(context.Background(), sampleFields())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, sendErr) {
		t.Fatalf("expected wrapped send error, got %v", err)
	}
}
