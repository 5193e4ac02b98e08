// Package pipeline drives an inbound form payload through decode, parse,
// persist and notify, then acknowledges the sender.
package pipeline

import (
	"context"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/leadrelay/core/logger"
	tghelpers "github.com/m3rciful/leadrelay/core/telegram/helpers"
	"github.com/m3rciful/leadrelay/submission"
	"log/slog"
)

// Replies sent back on the inbound chat.
const (
	ReplyNoMessage     = "No valid message received"
	ReplyInvalidJSON   = "Invalid data format received. Please submit valid JSON."
	ReplyThanks        = "Thank you for your submission!"
	ReplyInternalError = "An unexpected error occurred. The administrators have been notified."
)

// Store is the persistence surface the pipeline needs.
type Store interface {
	Insert(ctx context.Context, sub submission.Submission) (int64, error)
}

// Notifier delivers the formatted notification.
type Notifier interface {
	Notify(ctx context.Context, fields []submission.Field) error
}

// Pipeline handles inbound payload messages end to end.
type Pipeline struct {
	store    Store
	notifier Notifier
	fields   []string
}

// New builds a Pipeline over the given store and notifier. fields names
// the payload keys to extract, in order.
func New(store Store, notifier Notifier, fields []string) *Pipeline {
	return &Pipeline{store: store, notifier: notifier, fields: fields}
}

// Handle processes one inbound text update. A storage failure is logged
// and swallowed so the notification still goes out; a notification
// failure aborts the acknowledgement and surfaces to the caller.
func (p *Pipeline) Handle(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	start := time.Now()

	text := strings.TrimSpace(c.Text())
	if text == "" {
		logger.PIPE.LogAttrs(ctx, slog.LevelWarn, "pipeline.receive",
			slog.String("status", "skip"),
			slog.String("reason", "empty_message"),
		)
		return c.Send(ReplyNoMessage)
	}

	data, err := submission.Decode([]byte(text))
	if err != nil {
		logger.PIPE.LogAttrs(ctx, slog.LevelWarn, "pipeline.decode",
			slog.String("status", "fail"),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return c.Send(ReplyInvalidJSON)
	}

	fields := submission.ParseFields(data, p.fields)
	sub := submission.FromFields(fields)

	id, err := p.store.Insert(ctx, sub)
	if err != nil {
		// Persistence is best effort: the notification matters more
		// than the local copy.
		logger.PIPE.LogAttrs(ctx, slog.LevelWarn, "pipeline.persist",
			slog.String("status", "fail"),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
	}

	// A failed notification surfaces to the bot error hook, which owns
	// the ReplyInternalError acknowledgement.
	if err := p.notifier.Notify(ctx, fields); err != nil {
		return err
	}

	logger.PIPE.LogAttrs(ctx, slog.LevelInfo, "pipeline.handled",
		slog.String("status", "ok"),
		slog.Int64("submission_id", id),
		slog.Int("fields", len(fields)),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	)
	return c.Send(ReplyThanks)
}
