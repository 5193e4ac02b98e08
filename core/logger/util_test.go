package logger

import (
	"errors"
	"net/url"
	"strings"
	"testing"
)

func TestSanitizeErrorRedactsBotToken(t *testing.T) {
	sendErr := &url.Error{
		Op:  "Post",
		URL: "https://api.telegram.org/bot123456:AAE-secret-token/sendMessage",
		Err: errors.New("connection reset"),
	}

	got := SanitizeError(sendErr, 256)
	if strings.Contains(got, "123456:AAE-secret-token") {
		t.Fatalf("bot token leaked into log value: %q", got)
	}
	if !strings.Contains(got, "bot<redacted>") {
		t.Fatalf("expected redaction marker, got %q", got)
	}
	if !strings.Contains(got, "connection reset") {
		t.Fatalf("redaction must keep the underlying cause, got %q", got)
	}
}

func TestSanitizeErrorPassthrough(t *testing.T) {
	if got := SanitizeError(nil, 256); got != "" {
		t.Fatalf("expected empty string for nil error, got %q", got)
	}
	plain := errors.New("telegram: retry after 5")
	if got := SanitizeError(plain, 256); got != plain.Error() {
		t.Fatalf("plain error mangled: %q", got)
	}
}

func TestSanitizeErrorLimitsLength(t *testing.T) {
	long := errors.New(strings.Repeat("x", 400))
	if got := SanitizeError(long, 64); len([]rune(got)) != 64 {
		t.Fatalf("expected 64 runes, got %d", len([]rune(got)))
	}
}
