package resolver

import (
	"github.com/orgball2608/insta-downloader/internal/domain"
	"github.com/orgball2608/insta-downloader/internal/instagram"
	"github.com/samber/lo"
)

// patchVideo copies video URLs from donor into the video items of base that
// lack one. Items are matched by index; the primary item may also take the
// donor's first playable video when the donor has a different layout.
// Nothing else in base is touched.
func patchVideo(base, donor *domain.Content) {
	for i := range base.Media {
		item := &base.Media[i]
		if !item.IsVideo() || item.HasVideoURL() {
			continue
		}

		src := videoSource(donor, i)
		if src == nil {
			continue
		}

		item.VideoURL = playableURL(*src)
		if len(item.VideoVariants) == 0 && len(src.VideoVariants) > 0 {
			item.VideoVariants = append([]domain.Variant(nil), src.VideoVariants...)
		}
		if item.DurationSeconds == nil {
			item.DurationSeconds = src.DurationSeconds
		}
	}
}

func videoSource(donor *domain.Content, index int) *domain.MediaItem {
	if index < len(donor.Media) && donor.Media[index].HasVideoURL() {
		return &donor.Media[index]
	}
	if index != 0 {
		return nil
	}
	if item, ok := lo.Find(donor.Media, func(m domain.MediaItem) bool { return m.HasVideoURL() }); ok {
		return &item
	}
	return nil
}

func playableURL(item domain.MediaItem) string {
	if item.VideoURL != "" {
		return item.VideoURL
	}
	if len(item.VideoVariants) > 0 {
		return item.VideoVariants[0].URL
	}
	return ""
}

// finalize fills in the derived fields once the media list is complete.
func finalize(c *domain.Content, target instagram.Target) *domain.Content {
	c.Shortcode = target.Shortcode

	for i := range c.Media {
		item := &c.Media[i]
		item.Index = i
		if item.IsVideo() && item.VideoURL == "" {
			item.VideoURL = playableURL(*item)
		}
	}

	c.IsCarousel = len(c.Media) > 1
	c.CarouselCount = lo.Ternary(c.IsCarousel, len(c.Media), 0)
	c.Kind = resolveKind(c, target)
	c.IsVideo = c.Kind.IsVideo()

	if c.Owner.Username == "" {
		c.Owner.Username = domain.UnknownUsername
	}
	if c.Owner.AvatarURL == "" {
		c.Owner.AvatarURL = domain.DefaultAvatarURL
	}

	primary := c.Primary()
	c.PreviewURL = primary.PreviewURL
	c.Resolution = primary.Resolution()
	c.DurationSeconds = primary.DurationSeconds
	if c.ViewCount == 0 {
		c.ViewCount = primary.ViewCount
	}

	c.DownloadOptions = domain.BuildDownloadOptions(c.Kind, c.IsVideo)
	return c
}

func resolveKind(c *domain.Content, target instagram.Target) domain.Kind {
	if c.IsCarousel {
		return domain.KindCarousel
	}

	primary := c.Primary()
	if primary.IsVideo() {
		if c.Kind.IsVideo() {
			return c.Kind
		}
		hint := instagram.DetectKind(firstNonEmpty(target.URL, target.CanonicalURL))
		return lo.Ternary(hint == domain.KindReel, domain.KindReel, domain.KindVideo)
	}

	switch c.Kind {
	case domain.KindPost:
		return domain.KindPost
	default:
		return domain.KindPhoto
	}
}

func firstNonEmpty(values ...string) string {
	v, _ := lo.Coalesce(values...)
	return v
}
