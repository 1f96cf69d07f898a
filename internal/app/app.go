package app

import (
	"context"
	"errors"
	"time"

	"github.com/orgball2608/insta-downloader/internal/cache"
	"github.com/orgball2608/insta-downloader/internal/command"
	"github.com/orgball2608/insta-downloader/internal/command/commandimpl"
	"github.com/orgball2608/insta-downloader/internal/httpclient"
	"github.com/orgball2608/insta-downloader/internal/instagram/resolver"
	"github.com/orgball2608/insta-downloader/internal/ratelimit"
	"github.com/orgball2608/insta-downloader/internal/telegram"
	"github.com/orgball2608/insta-downloader/internal/telegram/telegramimpl"
	"github.com/orgball2608/insta-downloader/pkg/config"
	"github.com/orgball2608/insta-downloader/pkg/logger"
	"go.uber.org/fx"
)

// Core wires the resolver and everything it depends on.
var Core = fx.Options(
	fx.Provide(
		logger.FxOption,
		fx.Annotate(newLimiter, fx.As(new(ratelimit.Limiter))),
		fx.Annotate(httpclient.New, fx.As(new(httpclient.Fetcher))),
	),
	cache.Module,
	resolver.Module,
)

var Bot = fx.Module("bot",
	fx.Provide(
		fx.Annotate(
			telegramimpl.New,
			fx.As(new(telegram.Client)),
		),
		fx.Annotate(
			commandimpl.New,
			fx.As(new(command.Client)),
		),
	),
	fx.Invoke(runBot),
)

// New assembles the application. The bot is only started when a token is
// configured; the health endpoint always runs.
func New(cfg *config.Config) fx.Option {
	opts := []fx.Option{
		fx.Supply(cfg),
		Core,
		fx.Invoke(registerHTTPServer),
	}
	if cfg.Telegram.BotToken != "" {
		opts = append(opts, Bot)
	}
	return fx.Options(opts...)
}

func newLimiter(cfg *config.Config) *ratelimit.InMemoryLimiter {
	return ratelimit.NewInMemoryLimiter(cfg.HTTP.RatePerSecond, cfg.HTTP.RateBurst)
}

const botRestartDelay = 5 * time.Second

func runBot(lc fx.Lifecycle, log logger.Logger, cmd command.Client) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				for {
					err := cmd.HandleCommand(ctx)
					if ctx.Err() != nil {
						return
					}
					log.Error("Command handler stopped, restarting", "error", err, "delay", botRestartDelay)

					select {
					case <-ctx.Done():
						return
					case <-time.After(botRestartDelay):
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return errors.Join(errors.New("command handler did not stop in time"), stopCtx.Err())
			}
		},
	})
}
