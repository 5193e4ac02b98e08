package middleware

import (
	"runtime/debug"

	"github.com/m3rciful/leadrelay/core/logger"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

const panicReply = "An unexpected error occurred. The administrators have been notified."

// RecoverMiddleware catches panics in handlers and prevents the bot from crashing.
// The sender still gets the generic failure acknowledgement, best effort.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		defer func() {
			if r := recover(); r != nil {
				logger.TG.Error("panic recovered",
					slog.String("event", "tg.panic"),
					slog.Any("err", r),
					slog.String("stack", string(debug.Stack())),
				)
				if c != nil && c.Chat() != nil {
					if err := c.Send(panicReply); err != nil {
						logger.TG.Error("panic reply failed",
							slog.String("event", "tg.panic"),
							slog.String("err", logger.SanitizeError(err, 256)),
						)
					}
				}
			}
		}()
		return next(c)
	}
}
