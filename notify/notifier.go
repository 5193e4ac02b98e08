// Package notify renders and delivers the submission notification to the
// configured recipient chat.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/leadrelay/core/logger"
	"github.com/m3rciful/leadrelay/core/telegram/format"
	"github.com/m3rciful/leadrelay/submission"
	"log/slog"
)

const header = "📬 *New Form Submission!*"

// Sender abstracts the outbound Telegram API surface the notifier needs.
// *tele.Bot satisfies it.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Notifier delivers formatted submission notifications to one fixed chat.
type Notifier struct {
	sender    Sender
	recipient tele.ChatID
}

// NewNotifier builds a Notifier that sends to the given chat id.
func NewNotifier(sender Sender, chatID int64) *Notifier {
	return &Notifier{sender: sender, recipient: tele.ChatID(chatID)}
}

// Render builds the Markdown notification text for a parsed submission.
func Render(fields []submission.Field) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	for _, f := range fields {
		b.WriteString(fmt.Sprintf("*%s:* %s\n", fieldLabel(f.Key), format.EscapeV1(f.Value)))
	}
	return b.String()
}

// Notify sends the notification. Delivery is attempted exactly once; the
// caller decides what a failure means for the inbound event.
func (n *Notifier) Notify(ctx context.Context, fields []submission.Field) error {
	start := time.Now()
	_, err := n.sender.Send(n.recipient, Render(fields), tele.ModeMarkdown)
	if err != nil {
		logger.NOTIFY.LogAttrs(ctx, slog.LevelError, "notify.send",
			slog.String("status", "fail"),
			slog.Int64("chat_id", int64(n.recipient)),
			slog.String("err", logger.SanitizeError(err, 256)),
		)
		return fmt.Errorf("notify recipient: %w", err)
	}
	logger.NOTIFY.LogAttrs(ctx, slog.LevelInfo, "notify.send",
		slog.String("status", "ok"),
		slog.Int64("chat_id", int64(n.recipient)),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	)
	return nil
}

// fieldLabel turns a snake_case field key into its display label,
// e.g. "course_interest" -> "Course Interest".
func fieldLabel(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
