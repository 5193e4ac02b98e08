package bot

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/leadrelay/core/telegram/helpers"
	"github.com/m3rciful/leadrelay/core/telegram/keyboard"
)

const (
	welcomeText = "Welcome! I am the course notification bot. How can I help you?"
	helpText    = "I can provide updates and information about our English courses. Use /start to see available options."
)

// Counter exposes the analytics surface the commands need.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

func startHandler(c tele.Context) error {
	markup := keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "Get Updates", Unique: cbGetUpdates},
		{Text: "Learn More", Unique: cbLearnMore},
	})
	return tghelpers.SendMD(c, welcomeText, markup)
}

func helpHandler(c tele.Context) error {
	return tghelpers.SendText(c, helpText)
}

func analyticsHandler(counter Counter) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		total, err := counter.Count(ctx)
		if err != nil {
			return fmt.Errorf("analytics: %w", err)
		}
		return tghelpers.SendText(c, fmt.Sprintf("Total submissions: %d", total))
	}
}
