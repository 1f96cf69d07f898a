package resolver

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/orgball2608/insta-downloader/internal/cache"
	"github.com/orgball2608/insta-downloader/internal/domain"
	"github.com/orgball2608/insta-downloader/internal/instagram"
	"github.com/orgball2608/insta-downloader/pkg/config"
	"github.com/orgball2608/insta-downloader/pkg/errors"
	"github.com/orgball2608/insta-downloader/pkg/logger"
	"github.com/panjf2000/ants/v2"
	"github.com/samber/lo"
	"go.uber.org/fx"
	"golang.org/x/sync/singleflight"
)

const defaultTimeout = 60 * time.Second

type Opts struct {
	fx.In

	Strategies []instagram.Strategy
	Store      cache.Store
	Config     *config.Config
	Logger     logger.Logger
}

// Resolver turns Instagram URLs into complete Content by running the
// strategies in order until one of them, possibly patched by later ones,
// yields everything needed for download.
type Resolver struct {
	strategies []instagram.Strategy
	store      cache.Store
	logger     logger.Logger
	ttl        time.Duration
	timeout    time.Duration
	workers    int

	group singleflight.Group
}

var _ instagram.Resolver = (*Resolver)(nil)

func New(opts Opts) *Resolver {
	workers := opts.Config.Resolver.Workers
	if workers < 1 {
		workers = 1
	}
	timeout := opts.Config.Resolver.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Resolver{
		strategies: opts.Strategies,
		store:      opts.Store,
		logger:     opts.Logger.WithComponent("Resolver"),
		ttl:        opts.Config.Cache.TTL,
		timeout:    timeout,
		workers:    workers,
	}
}

// Resolve returns the content behind rawURL. Concurrent calls for the same
// shortcode share one upstream fetch. The fetch is bounded by the resolver
// timeout rather than by ctx, so a caller giving up does not waste the work
// for the others waiting on it.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (*domain.Content, error) {
	target, ok := instagram.NewTarget(rawURL)
	if !ok {
		return nil, errors.InvalidURL(rawURL)
	}

	key := cache.Key(target.Shortcode)
	if content, ok := r.lookup(ctx, key); ok {
		r.logger.Debug("Cache hit", "shortcode", target.Shortcode)
		return content, nil
	}

	ch := r.group.DoChan(key, func() (any, error) {
		bg := context.WithoutCancel(ctx)
		if content, ok := r.lookup(bg, key); ok {
			return content, nil
		}

		runCtx, cancel := context.WithTimeout(bg, r.timeout)
		defer cancel()

		content, err := r.cascade(runCtx, target)
		if err != nil {
			return nil, err
		}

		if err := r.store.Set(bg, key, content, r.ttl); err != nil {
			r.logger.Warn("Failed to cache content", "shortcode", target.Shortcode, "error", err)
		}
		return content, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.Content), nil
	}
}

// ResolveMany resolves every URL with a bounded worker pool. Results keep
// the input order.
func (r *Resolver) ResolveMany(ctx context.Context, rawURLs []string) []instagram.Result {
	results := make([]instagram.Result, len(rawURLs))
	if len(rawURLs) == 0 {
		return results
	}

	resolveAt := func(i int) {
		content, err := r.Resolve(ctx, rawURLs[i])
		results[i] = instagram.Result{URL: rawURLs[i], Content: content, Err: err}
	}

	pool, err := ants.NewPool(min(r.workers, len(rawURLs)), ants.WithPreAlloc(true))
	if err != nil {
		r.logger.Error("Failed to create worker pool, resolving sequentially", "error", err)
		for i := range rawURLs {
			resolveAt(i)
		}
		return results
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range rawURLs {
		i := i
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			resolveAt(i)
		})
		if err != nil {
			r.logger.Error("Failed to submit job to ants pool", "url", rawURLs[i], "error", err)
			resolveAt(i)
			wg.Done()
		}
	}
	wg.Wait()

	return results
}

func (r *Resolver) lookup(ctx context.Context, key string) (*domain.Content, bool) {
	content, ok, err := r.store.Get(ctx, key)
	if err != nil {
		r.logger.Warn("Cache lookup failed", "key", key, "error", err)
		return nil, false
	}
	return content, ok
}

// cascade runs the strategies in priority order. The first result becomes
// the base; later ones only fill in video URLs the base is missing.
func (r *Resolver) cascade(ctx context.Context, target instagram.Target) (*domain.Content, error) {
	var (
		base    *domain.Content
		reasons []string
	)

	for _, s := range r.strategies {
		name := s.Name()
		if err := ctx.Err(); err != nil {
			reasons = append(reasons, fmt.Sprintf("%s: skipped: %v", name, err))
			continue
		}

		start := time.Now()
		result, err := r.attempt(ctx, s, target)
		elapsed := time.Since(start)

		switch {
		case err != nil:
			r.logger.Warn("Strategy failed", "strategy", name, "shortcode", target.Shortcode, "error", err, "duration", elapsed)
			reasons = append(reasons, fmt.Sprintf("%s: %v", name, err))
			continue
		case result == nil:
			r.logger.Debug("Strategy returned no data", "strategy", name, "shortcode", target.Shortcode, "duration", elapsed)
			reasons = append(reasons, name+": no data")
			continue
		}

		result.Media = withPreview(result.Media)
		if len(result.Media) == 0 {
			r.logger.Debug("Strategy returned no usable media", "strategy", name, "shortcode", target.Shortcode, "duration", elapsed)
			reasons = append(reasons, name+": empty media")
			continue
		}

		r.logger.Info("Strategy succeeded", "strategy", name, "shortcode", target.Shortcode, "items", len(result.Media), "duration", elapsed)

		if base == nil {
			base = result
		} else {
			patchVideo(base, result)
		}

		if !base.MissingVideo() {
			return finalize(base, target), nil
		}
		reasons = append(reasons, name+": video url missing")
	}

	if base == nil {
		return nil, errors.NotFound(target.Shortcode, strings.Join(reasons, "; "))
	}
	return nil, errors.NotFound(target.Shortcode, "no strategy supplied a video url: "+strings.Join(reasons, "; "))
}

// withPreview drops items without a preview image; such items cannot be
// shown or downloaded.
func withPreview(items []domain.MediaItem) []domain.MediaItem {
	return lo.Filter(items, func(m domain.MediaItem, _ int) bool { return m.PreviewURL != "" })
}

func (r *Resolver) attempt(ctx context.Context, s instagram.Strategy, target instagram.Target) (content *domain.Content, err error) {
	defer func() {
		if p := recover(); p != nil {
			content, err = nil, fmt.Errorf("panic: %v", p)
		}
	}()
	return s.Fetch(ctx, target)
}
