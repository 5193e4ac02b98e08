package middleware

import (
	"os"
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/leadrelay/core/logger"
)

func TestMain(m *testing.M) {
	_ = logger.InitLogger(nil)
	code := m.Run()
	_ = logger.Shutdown()
	os.Exit(code)
}

type recoverContext struct {
	tele.Context
	sent []string
}

func (r *recoverContext) Chat() *tele.Chat { return &tele.Chat{ID: 9} }

func (r *recoverContext) Send(what interface{}, opts ...interface{}) error {
	if s, ok := what.(string); ok {
		r.sent = append(r.sent, s)
	}
	return nil
}

func TestRecoverMiddlewareContainsPanic(t *testing.T) {
	c := &recoverContext{}
	h := RecoverMiddleware(func(tele.Context) error {
		panic("boom")
	})

	if err := h(c); err != nil {
		t.Fatalf("recovered handler returned error: %v", err)
	}
	if len(c.sent) != 1 || c.sent[0] != panicReply {
		t.Fatalf("expected generic failure reply, got %v", c.sent)
	}
}

func TestRecoverMiddlewarePassesThrough(t *testing.T) {
	c := &recoverContext{}
	called := false
	h := RecoverMiddleware(func(tele.Context) error {
		called = true
		return nil
	})

	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !called {
		t.Fatal("next handler not invoked")
	}
	if len(c.sent) != 0 {
		t.Fatalf("unexpected replies: %v", c.sent)
	}
}
