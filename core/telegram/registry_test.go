package telegram

import (
	"os"
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/leadrelay/core/logger"
	"github.com/m3rciful/leadrelay/core/telegram/commands"
)

func TestMain(m *testing.M) {
	_ = logger.InitLogger(nil)
	code := m.Run()
	_ = logger.Shutdown()
	os.Exit(code)
}

func noopHandler(c tele.Context) error { return nil }

func TestRegisterCommandValidation(t *testing.T) {
	reg := NewRegistry()

	reg.RegisterCommand("start", commands.Command{Handler: noopHandler, Description: "no slash"})
	reg.RegisterCommand("/nodesc", commands.Command{Handler: noopHandler})
	reg.RegisterCommand("/nohandler", commands.Command{Description: "x"})

	if got := len(reg.Commands()); got != 0 {
		t.Fatalf("expected no commands registered, got %d", got)
	}

	reg.RegisterCommand("/start", commands.Command{Handler: noopHandler, Description: "menu"})
	reg.RegisterCommand("/start", commands.Command{Handler: noopHandler, Description: "dup"})
	if got := len(reg.Commands()); got != 1 {
		t.Fatalf("expected 1 command, got %d", got)
	}
	if reg.Commands()["/start"].Description != "menu" {
		t.Fatal("duplicate registration replaced the original")
	}
}

func TestLookupCommandAliases(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/analytics", commands.Command{
		Handler:     noopHandler,
		Description: "totals",
		Aliases:     []string{"stats"},
	})

	key, _, ok := reg.LookupCommand("/stats")
	if !ok || key != "/analytics" {
		t.Fatalf("alias lookup failed: key=%q ok=%v", key, ok)
	}
	if _, _, ok := reg.LookupCommand("/missing"); ok {
		t.Fatal("unexpected lookup hit")
	}
}

func TestListCommandsHidesInternal(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Handler: noopHandler, Description: "menu"})
	reg.RegisterCommand("/debug", commands.Command{Handler: noopHandler, Description: "internal", Hidden: true})
	reg.RegisterCommand("/admin", commands.Command{Handler: noopHandler, Description: "ops", AdminOnly: true})

	visible := reg.ListCommands(true)
	if len(visible) != 1 || visible[0].Text != "/start" {
		t.Fatalf("unexpected visible commands: %v", visible)
	}
	if all := reg.ListCommands(false); len(all) != 3 {
		t.Fatalf("expected 3 commands in full list, got %d", len(all))
	}
}

func TestRegisterCallbackRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCallback("get_updates", noopHandler); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.RegisterCallback("get_updates", noopHandler); err == nil {
		t.Fatal("expected duplicate error")
	}
	if err := reg.RegisterCallback("", noopHandler); err == nil {
		t.Fatal("expected error for empty key")
	}
	if _, ok := reg.GetCallback("get_updates"); !ok {
		t.Fatal("registered callback missing")
	}
}

func TestTextFallbackRoundTrip(t *testing.T) {
	reg := NewRegistry()
	if reg.TextFallback() != nil {
		t.Fatal("expected no default fallback")
	}
	reg.SetTextFallback(noopHandler)
	if reg.TextFallback() == nil {
		t.Fatal("fallback not stored")
	}
}
