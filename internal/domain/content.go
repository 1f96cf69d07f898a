package domain

import (
	"fmt"
	"sort"
	"time"
)

// Kind classifies a piece of content as a whole.
type Kind string

const (
	KindPhoto    Kind = "photo"
	KindVideo    Kind = "video"
	KindReel     Kind = "reel"
	KindCarousel Kind = "carousel"
	KindPost     Kind = "post"
)

// MediaKind classifies a single media item.
type MediaKind string

const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
)

const (
	UnknownUsername   = "unknown"
	DefaultAvatarURL  = "https://ui-avatars.com/api/?name=IG&background=E1306C&color=fff&size=150"
	DefaultDimension  = 1080
	DefaultResolution = "1080 × 1080"
)

type Owner struct {
	ID        string `json:"id,omitempty"`
	Username  string `json:"username"`
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url"`
}

// Variant is one rendition of a media asset.
type Variant struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type MediaItem struct {
	Index           int       `json:"index"`
	Kind            MediaKind `json:"kind"`
	PreviewURL      string    `json:"preview_url"`
	ThumbnailURL    string    `json:"thumbnail_url,omitempty"`
	VideoURL        string    `json:"video_url,omitempty"`
	VideoVariants   []Variant `json:"video_variants,omitempty"`
	ImageVariants   []Variant `json:"image_variants,omitempty"`
	Width           int       `json:"width"`
	Height          int       `json:"height"`
	DurationSeconds *float64  `json:"duration_seconds,omitempty"`
	ViewCount       int64     `json:"view_count,omitempty"`
}

func (m MediaItem) IsVideo() bool {
	return m.Kind == MediaVideo
}

// Resolution renders the item dimensions the way they are shown to users.
func (m MediaItem) Resolution() string {
	if m.Width <= 0 || m.Height <= 0 {
		return DefaultResolution
	}
	return fmt.Sprintf("%d × %d", m.Width, m.Height)
}

// HasVideoURL reports whether a video item can be downloaded as video.
func (m MediaItem) HasVideoURL() bool {
	return m.VideoURL != "" || len(m.VideoVariants) > 0
}

type DownloadOption struct {
	Quality       Quality `json:"quality,omitempty"`
	Format        Format  `json:"format"`
	Label         string  `json:"label"`
	Resolution    string  `json:"resolution,omitempty"`
	Description   string  `json:"description,omitempty"`
	EstimatedSize string  `json:"estimated_size"`
}

// Content is the canonical, source independent view of a post. It must not
// be modified once returned by the resolver.
type Content struct {
	Shortcode       string           `json:"shortcode"`
	Kind            Kind             `json:"kind"`
	IsVideo         bool             `json:"is_video"`
	IsCarousel      bool             `json:"is_carousel"`
	CarouselCount   int              `json:"carousel_count"`
	Owner           Owner            `json:"owner"`
	Caption         string           `json:"caption"`
	PostedAt        *time.Time       `json:"posted_at,omitempty"`
	LikeCount       int64            `json:"like_count"`
	CommentCount    int64            `json:"comment_count"`
	ViewCount       int64            `json:"view_count,omitempty"`
	PreviewURL      string           `json:"preview_url"`
	Resolution      string           `json:"resolution"`
	DurationSeconds *float64         `json:"duration_seconds,omitempty"`
	Media           []MediaItem      `json:"media"`
	DownloadOptions []DownloadOption `json:"download_options"`
	Source          string           `json:"source"`
}

// Primary returns the first media item, or nil when there is none.
func (c *Content) Primary() *MediaItem {
	if c == nil || len(c.Media) == 0 {
		return nil
	}
	return &c.Media[0]
}

// Item returns the media item at index, falling back to the primary item
// when index is out of range.
func (c *Content) Item(index int) *MediaItem {
	if c == nil || len(c.Media) == 0 {
		return nil
	}
	if index < 0 || index >= len(c.Media) {
		index = 0
	}
	return &c.Media[index]
}

// MissingVideo reports whether any video item still lacks a playable URL.
func (c *Content) MissingVideo() bool {
	for _, m := range c.Media {
		if m.IsVideo() && !m.HasVideoURL() {
			return true
		}
	}
	return false
}

func (k Kind) IsVideo() bool {
	return k == KindVideo || k == KindReel
}

// SortVariants orders variants by width, widest first. Equal widths keep
// their original order.
func SortVariants(v []Variant) []Variant {
	sort.SliceStable(v, func(i, j int) bool {
		return v[i].Width > v[j].Width
	})
	return v
}

// BuildDownloadOptions lists the choices offered for a piece of content.
// Sizes are fixed estimates, not measurements.
func BuildDownloadOptions(kind Kind, isVideo bool) []DownloadOption {
	if isVideo || kind.IsVideo() {
		hdSize, sdSize := "~15 MB", "~8 MB"
		if kind == KindReel {
			hdSize, sdSize = "~12 MB", "~6 MB"
		}
		return []DownloadOption{
			{Quality: QualityHD, Format: FormatMP4, Label: "HD Quality", Resolution: "1080p", EstimatedSize: hdSize},
			{Quality: QualitySD, Format: FormatMP4, Label: "SD Quality", Resolution: "720p", EstimatedSize: sdSize},
			{Quality: QualityAudio, Format: FormatMP3, Label: "Audio Only", Resolution: "320kbps", EstimatedSize: "~3 MB"},
		}
	}

	return []DownloadOption{
		{Format: FormatJPG, Label: "JPG Format", Description: "Original Quality • Compressed", EstimatedSize: "~500 KB"},
		{Format: FormatPNG, Label: "PNG Format", Description: "Lossless • Best Quality", EstimatedSize: "~1.2 MB"},
		{Format: FormatWebP, Label: "WebP Format", Description: "Modern • Optimized", EstimatedSize: "~300 KB"},
	}
}
