// Package app wires the confession bot: configuration, persistence,
// handlers, and the Telegram runtime options consumed by the shared runner.
package app

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/confessbot/app/handlers"
	"github.com/m3rciful/confessbot/confession"
	"github.com/m3rciful/confessbot/core/bootstrap"
	corecmd "github.com/m3rciful/confessbot/core/cmd"
	coretelegram "github.com/m3rciful/confessbot/core/telegram"
	tghelpers "github.com/m3rciful/confessbot/core/telegram/helpers"
	"github.com/m3rciful/confessbot/core/telegram/router"
	"github.com/m3rciful/confessbot/core/telegram/state"
)

// App is the bootstrapped confession bot.
type App struct {
	cfg      *Config
	store    *confession.Store
	fsm      state.Manager
	handlers *handlers.Handlers
}

// New initializes logging, the database, migrations, and the handler set.
func New(carrier corecmd.ConfigCarrier) (*App, error) {
	cfg, ok := carrier.(*Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	store := confession.NewStore(res.DB)
	fsm := state.NewMemoryManager()

	h := &handlers.Handlers{
		Store:       store,
		FSM:         fsm,
		ChannelID:   cfg.Bot.ChannelID,
		AdminIDs:    cfg.Bot.AdminIDs,
		BotUsername: cfg.Bot.Username,
	}

	return &App{
		cfg:      cfg,
		store:    store,
		fsm:      fsm,
		handlers: h,
	}, nil
}

// TelegramRunOptions assembles registry, routes, and middleware for the runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.handlers.Register(reg)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminIDs:      a.cfg.Bot.AdminIDs,
		OnAdminReject: a.handlers.AdminRefused,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(a.fsm, reg, router.TextOptions{
		UnknownText: a.handlers.UnknownText,
		UnknownDocument: func(c tele.Context) error {
			return tghelpers.SendText(c, "Please send your confession as plain text.")
		},
	})...)

	middlewares := coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil)
	middlewares = append(middlewares, coretelegram.Middleware{
		Name: "session",
		Use:  state.WithSession(a.fsm),
	})

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: middlewares,
		Routes:      routes,
	}, nil
}
