package resolver

import (
	"github.com/orgball2608/insta-downloader/internal/instagram"
	"github.com/orgball2608/insta-downloader/internal/instagram/strategy"
	"go.uber.org/fx"
)

var Module = fx.Module("resolver",
	fx.Provide(
		strategy.NewChain,
		fx.Annotate(
			New,
			fx.As(new(instagram.Resolver)),
		),
	),
)
