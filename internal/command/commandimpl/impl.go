package commandimpl

import (
	"github.com/orgball2608/insta-downloader/internal/command"
	"github.com/orgball2608/insta-downloader/internal/instagram"
	"github.com/orgball2608/insta-downloader/internal/telegram"
	"github.com/orgball2608/insta-downloader/pkg/config"
	"github.com/orgball2608/insta-downloader/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Resolver instagram.Resolver
	Telegram telegram.Client
	Logger   logger.Logger
	Config   *config.Config
}

type CommandImpl struct {
	Resolver instagram.Resolver
	Telegram telegram.Client
	Logger   logger.Logger
	Config   *config.Config
}

func New(opts Opts) *CommandImpl {
	return &CommandImpl{
		Resolver: opts.Resolver,
		Telegram: opts.Telegram,
		Logger:   opts.Logger.WithComponent("Command"),
		Config:   opts.Config,
	}
}

var _ command.Client = (*CommandImpl)(nil)
