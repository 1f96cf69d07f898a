package strategy

import (
	"time"

	"github.com/orgball2608/insta-downloader/internal/domain"
	"github.com/samber/lo"
)

const typenameSidecar = "GraphSidecar"

type graphQLCount struct {
	Count flexInt `json:"count"`
}

type graphQLDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type graphQLResource struct {
	Src          string `json:"src"`
	ConfigWidth  int    `json:"config_width"`
	ConfigHeight int    `json:"config_height"`
}

type graphQLOwner struct {
	ID            flexString `json:"id"`
	Username      string     `json:"username"`
	FullName      string     `json:"full_name"`
	ProfilePicURL string     `json:"profile_pic_url"`
}

type graphQLCaptionEdges struct {
	Edges []struct {
		Node struct {
			Text string `json:"text"`
		} `json:"node"`
	} `json:"edges"`
}

// graphQLMedia is the shortcode_media object served by the GraphQL endpoint
// and embedded in several HTML pages.
type graphQLMedia struct {
	Typename         string            `json:"__typename"`
	Shortcode        string            `json:"shortcode"`
	IsVideo          bool              `json:"is_video"`
	ProductType      string            `json:"product_type"`
	DisplayURL       string            `json:"display_url"`
	ThumbnailSrc     string            `json:"thumbnail_src"`
	VideoURL         string            `json:"video_url"`
	VideoDuration    float64           `json:"video_duration"`
	VideoViewCount   flexInt           `json:"video_view_count"`
	Dimensions       graphQLDimensions `json:"dimensions"`
	DisplayResources []graphQLResource `json:"display_resources"`
	TakenAtTimestamp int64             `json:"taken_at_timestamp"`
	Owner            graphQLOwner      `json:"owner"`

	EdgeMediaToCaption       graphQLCaptionEdges `json:"edge_media_to_caption"`
	Caption                  flexText            `json:"caption"`
	EdgeMediaPreviewLike     graphQLCount        `json:"edge_media_preview_like"`
	EdgeLikedBy              graphQLCount        `json:"edge_liked_by"`
	EdgeMediaToComment       graphQLCount        `json:"edge_media_to_comment"`
	EdgeMediaToParentComment graphQLCount        `json:"edge_media_to_parent_comment"`

	EdgeSidecarToChildren struct {
		Edges []struct {
			Node graphQLMedia `json:"node"`
		} `json:"edges"`
	} `json:"edge_sidecar_to_children"`
}

func (m *graphQLMedia) caption() string {
	for _, e := range m.EdgeMediaToCaption.Edges {
		if e.Node.Text != "" {
			return e.Node.Text
		}
	}
	return string(m.Caption)
}

func (m *graphQLMedia) kind() domain.Kind {
	switch {
	case m.Typename == typenameSidecar:
		return domain.KindCarousel
	case m.IsVideo && isReelProduct(m.ProductType):
		return domain.KindReel
	case m.IsVideo:
		return domain.KindVideo
	default:
		return domain.KindPhoto
	}
}

func (m *graphQLMedia) mediaItem() domain.MediaItem {
	item := domain.MediaItem{
		Kind:         domain.MediaPhoto,
		PreviewURL:   firstNonEmpty(m.DisplayURL, m.ThumbnailSrc),
		ThumbnailURL: firstNonEmpty(m.ThumbnailSrc, m.DisplayURL),
		Width:        positiveOr(m.Dimensions.Width, domain.DefaultDimension),
		Height:       positiveOr(m.Dimensions.Height, domain.DefaultDimension),
		ImageVariants: domain.SortVariants(lo.FilterMap(m.DisplayResources, func(r graphQLResource, _ int) (domain.Variant, bool) {
			return domain.Variant{URL: r.Src, Width: r.ConfigWidth, Height: r.ConfigHeight}, r.Src != ""
		})),
	}
	if m.IsVideo {
		item.Kind = domain.MediaVideo
		item.VideoURL = m.VideoURL
		item.ViewCount = int64(m.VideoViewCount)
		if m.VideoDuration > 0 {
			item.DurationSeconds = lo.ToPtr(m.VideoDuration)
		}
	}
	return item
}

// toContent maps a GraphQL media object. It returns nil when no item carries
// a preview URL.
func (m *graphQLMedia) toContent(source string) *domain.Content {
	if m == nil {
		return nil
	}

	var items []domain.MediaItem
	if m.Typename == typenameSidecar && len(m.EdgeSidecarToChildren.Edges) > 0 {
		for _, edge := range m.EdgeSidecarToChildren.Edges {
			items = append(items, edge.Node.mediaItem())
		}
	} else {
		items = append(items, m.mediaItem())
	}

	items = usableItems(items)
	if len(items) == 0 {
		return nil
	}

	c := &domain.Content{
		Kind:    m.kind(),
		IsVideo: m.IsVideo,
		Owner: domain.Owner{
			ID:        string(m.Owner.ID),
			Username:  m.Owner.Username,
			FullName:  m.Owner.FullName,
			AvatarURL: m.Owner.ProfilePicURL,
		},
		Caption:      m.caption(),
		LikeCount:    int64(firstPositive(m.EdgeMediaPreviewLike.Count, m.EdgeLikedBy.Count)),
		CommentCount: int64(firstPositive(m.EdgeMediaToComment.Count, m.EdgeMediaToParentComment.Count)),
		ViewCount:    int64(m.VideoViewCount),
		PostedAt:     unixTime(m.TakenAtTimestamp),
		Media:        items,
		Source:       source,
	}
	return c
}

func isReelProduct(productType string) bool {
	return productType == "clips" || productType == "reels"
}

// usableItems drops items without a preview URL and renumbers the rest.
func usableItems(items []domain.MediaItem) []domain.MediaItem {
	kept := lo.Filter(items, func(it domain.MediaItem, _ int) bool {
		return it.PreviewURL != ""
	})
	for i := range kept {
		kept[i].Index = i
	}
	return kept
}

func firstNonEmpty(values ...string) string {
	v, _ := lo.Coalesce(values...)
	return v
}

func firstPositive(values ...flexInt) flexInt {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func positiveOr(v, fallback int) int {
	return lo.Ternary(v > 0, v, fallback)
}

func unixTime(ts int64) *time.Time {
	if ts <= 0 {
		return nil
	}
	return lo.ToPtr(time.Unix(ts, 0).UTC())
}
