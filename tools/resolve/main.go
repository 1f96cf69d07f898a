package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/orgball2608/insta-downloader/internal/app"
	"github.com/orgball2608/insta-downloader/internal/domain"
	"github.com/orgball2608/insta-downloader/internal/download"
	"github.com/orgball2608/insta-downloader/internal/instagram"
	"github.com/orgball2608/insta-downloader/pkg/config"
	apperrors "github.com/orgball2608/insta-downloader/pkg/errors"
	"go.uber.org/fx"
)

type args struct {
	URLs    []string      `arg:"positional,required" help:"instagram post, reel or IGTV URLs"`
	Index   int           `arg:"-i,--index" help:"media item to select (0-based)"`
	Quality string        `arg:"-q,--quality" default:"hd" help:"hd, sd or audio"`
	Format  string        `arg:"-f,--format" help:"jpg, png, webp, gif, mp4 or mp3"`
	All     bool          `arg:"-a,--all" help:"select every media item"`
	Timeout time.Duration `arg:"-t,--timeout" default:"90s" help:"overall deadline"`
	Verbose bool          `arg:"-v,--verbose" help:"print dependency injection events"`
}

func (args) Description() string {
	return "Resolves Instagram URLs and prints the content and the selected download as JSON."
}

type output struct {
	URL       string                `json:"url"`
	Content   *domain.Content       `json:"content,omitempty"`
	Downloads []domain.DownloadInfo `json:"downloads,omitempty"`
	Error     string                `json:"error,omitempty"`
	Code      string                `json:"code,omitempty"`
}

func main() {
	var a args
	p := arg.MustParse(&a)

	quality, err := download.ParseQuality(a.Quality)
	if err != nil {
		p.Fail(err.Error())
	}
	format, err := download.ParseFormat(a.Format)
	if err != nil {
		p.Fail(err.Error())
	}

	cfg, err := config.New()
	if err != nil {
		p.Fail(err.Error())
	}

	os.Exit(run(cfg, a, quality, format))
}

func run(cfg *config.Config, a args, quality domain.Quality, format domain.Format) int {
	var resolver instagram.Resolver
	opts := []fx.Option{fx.Supply(cfg), app.Core, fx.Populate(&resolver)}
	if !a.Verbose {
		opts = append(opts, fx.NopLogger)
	}
	fxApp := fx.New(opts...)

	ctx, cancel := context.WithTimeout(context.Background(), a.Timeout)
	defer cancel()

	if err := fxApp.Start(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() { _ = fxApp.Stop(context.Background()) }()

	results := resolver.ResolveMany(ctx, a.URLs)
	out := make([]output, 0, len(results))
	code := 0
	for _, res := range results {
		o := output{URL: res.URL, Content: res.Content}
		if res.Err == nil {
			if a.All {
				o.Downloads, res.Err = download.SelectAll(res.Content, quality, format)
			} else {
				var info domain.DownloadInfo
				info, res.Err = download.Select(res.Content, download.Request{Index: a.Index, Quality: quality, Format: format})
				o.Downloads = []domain.DownloadInfo{info}
			}
		}
		if res.Err != nil {
			code = 2
			o.Downloads = nil
			o.Error = res.Err.Error()
			o.Code = apperrors.GetCode(res.Err)
		}
		out = append(out, o)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return code
}
