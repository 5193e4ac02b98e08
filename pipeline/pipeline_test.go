package pipeline

import (
	"context"
	"errors"
	"os"
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

type fakeContext struct {
	tele.Context
	text  string
	sent  []string
	store map[string]interface{}
}

func (f *fakeContext) Text() string        { return f.text }
func (f *fakeContext) Update() tele.Update { return tele.Update{ID: 100} }
func (f *fakeContext) Sender() *tele.User  { return &tele.User{ID: 7} }
func (f *fakeContext) Chat() *tele.Chat    { return &tele.Chat{ID: 42} }

func (f *fakeContext) Send(what interface{}, opts ...interface{}) error {
	if s, ok := what.(string); ok {
		f.sent = append(f.sent, s)
	}
	return nil
}

func (f *fakeContext) Get(key string) interface{} { return f.store[key] }

func (f *fakeContext) Set(key string, v interface{}) {
	if f.store == nil {
		f.store = make(map[string]interface{})
	}
	f.store[key] = v
}

type fakeStore struct {
	subs []submission.Submission
	err  error
}

func (f *fakeStore) Insert(ctx context.Context, sub submission.Submission) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.subs = append(f.subs, sub)
	return int64(len(f.subs)), nil
}

type fakeNotifier struct {
	calls [][]submission.Field
	err   error
}

func (f *fakeNotifier) Notify(ctx context.Context, fields []submission.Field) error {
	f.calls = append(f.calls, fields)
	return f.err
}

var testFields = []string{"name", "email", "phone", "course_interest"}

func lastReply(t *testing.T, c *fakeContext) string {
	t.Helper()
	if len(c.sent) == 0 {
		t.Fatal("expected a reply")
	}
	return c.sent[len(c.sent)-1]
}

func TestHandleSuccess(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	p := New(store, notifier, testFields)
	c := &fakeContext{text: `{"name":"Jo","email":"jo@x.io"}`}

	if err := p.Handle(c); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(store.subs) != 1 {
		t.Fatalf("expected 1 stored submission, got %d", len(store.subs))
	}
	if store.subs[0].Name != "Jo" || store.subs[0].Phone != submission.NotProvided {
		t.Fatalf("unexpected stored submission: %+v", store.subs[0])
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.calls))
	}
	if got := lastReply(t, c); got != ReplyThanks {
		t.Fatalf("reply = %q, expected %q", got, ReplyThanks)
	}
}

func TestHandleEmptyMessage(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	p := New(store, notifier, testFields)
	c := &fakeContext{text: "   "}

	if err := p.Handle(c); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := lastReply(t, c); got != ReplyNoMessage {
		t.Fatalf("reply = %q, expected %q", got, ReplyNoMessage)
	}
	if len(store.subs) != 0 || len(notifier.calls) != 0 {
		t.Fatal("empty message must not reach store or notifier")
	}
}

func TestHandleInvalidJSON(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	p := New(store, notifier, testFields)
	c := &fakeContext{text: "hello there"}

	if err := p.Handle(c); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := lastReply(t, c); got != ReplyInvalidJSON {
		t.Fatalf("reply = %q, expected %q", got, ReplyInvalidJSON)
	}
	if len(notifier.calls) != 0 {
		t.Fatal("invalid payload must not be notified")
	}
}

func TestHandleStorageFailureStillNotifies(t *testing.T) {
	store := &fakeStore{err: errors.New("disk full")}
	notifier := &fakeNotifier{}
	p := New(store, notifier, testFields)
	c := &fakeContext{text: `{"name":"Jo"}`}

	if err := p.Handle(c); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("expected notification despite storage failure, got %d", len(notifier.calls))
	}
	if got := lastReply(t, c); got != ReplyThanks {
		t.Fatalf("reply = %q, expected %q", got, ReplyThanks)
	}
}

func TestHandleNotifyFailurePropagates(t *testing.T) {
	notifyErr := errors.New("telegram down")
	store := &fakeStore{}
	notifier := &fakeNotifier{err: notifyErr}
	p := New(store, notifier, testFields)
	c := &fakeContext{text: `{"name":"Jo"}`}

	err := p.Handle(c)
	if !errors.Is(err, notifyErr) {
		t.Fatalf("expected notify error, got %v", err)
	}
	for _, s := range c.sent {
		if s == ReplyThanks {
			t.Fatal("must not acknowledge when notification failed")
		}
	}
}
