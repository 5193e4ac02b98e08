// Package bot wires the relay's registry, routes and lifecycle hooks on
// top of the shared telegram core.
package bot

import (
	"context"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/m3rciful/leadrelay/core/config"
	"github.com/m3rciful/leadrelay/core/logger"
	tg "github.com/m3rciful/leadrelay/core/telegram"
	"github.com/m3rciful/leadrelay/core/telegram/commands"
	tghelpers "github.com/m3rciful/leadrelay/core/telegram/helpers"
	"github.com/m3rciful/leadrelay/core/telegram/router"
	"github.com/m3rciful/leadrelay/notify"
	"github.com/m3rciful/leadrelay/pipeline"
	"github.com/m3rciful/leadrelay/submission"
	"log/slog"
)

// App assembles the relay bot: command handlers, callback handlers and
// the inbound payload pipeline.
type App struct {
	cfg   *coreconfig.Config
	store *submission.Store

	// pipe is assembled in OnStart once the bot (and with it the
	// outbound sender) exists. Updates only flow after bot.Start, so
	// handlers never observe it nil.
	pipe *pipeline.Pipeline
}

// NewApp builds the application over an initialized store.
func NewApp(cfg *coreconfig.Config, store *submission.Store) *App {
	return &App{cfg: cfg, store: store}
}

// BuildRegistry registers every command, callback and the text fallback.
func (a *App) BuildRegistry() *tg.Registry {
	reg := tg.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     startHandler,
		Description: "Show the menu",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     helpHandler,
		Description: "What this bot does",
	})
	reg.RegisterCommand("/analytics", commands.Command{
		Handler:     analyticsHandler(a.store),
		Description: "Total stored submissions",
	})

	_ = reg.RegisterCallback(cbGetUpdates, getUpdatesHandler)
	_ = reg.RegisterCallback(cbLearnMore, learnMoreHandler(a.cfg.Links.Website))

	reg.SetTextFallback(a.handleInbound)
	return reg
}

// Routes builds the full route table for the registry.
func (a *App) Routes(reg *tg.Registry) []tg.Route {
	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(reg, router.TextOptions{})...)
	return routes
}

// OnStart finishes wiring once the bot exists: the notifier needs the
// outbound sender, and the pipeline needs the notifier.
func (a *App) OnStart(ctx context.Context, rt tg.Runtime) error {
	notifier := notify.NewNotifier(rt.Bot, a.cfg.Telegram.RecipientChatID)
	a.pipe = pipeline.New(a.store, notifier, a.cfg.Forms.Fields)
	return nil
}

// OnError is the bot-level error hook. It logs the failure and sends the
// generic acknowledgement to the originating chat when one is known.
func (a *App) OnError(err error, c tele.Context) {
	ctx := context.Background()
	if c != nil {
		ctx = tghelpers.BuildContext(c)
	}
	logger.TG.LogAttrs(ctx, slog.LevelError, "bot.error",
		slog.String("err", logger.SanitizeError(err, 256)),
	)
	if c != nil && c.Chat() != nil {
		if sendErr := c.Send(pipeline.ReplyInternalError); sendErr != nil {
			logger.TG.LogAttrs(ctx, slog.LevelError, "bot.error.notify_failed",
				slog.String("err", logger.SanitizeError(sendErr, 256)),
			)
		}
	}
}

func (a *App) handleInbound(c tele.Context) error {
	if a.pipe == nil {
		return nil
	}
	return a.pipe.Handle(c)
}
