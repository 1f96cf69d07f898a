package strategy

import (
	"github.com/orgball2608/insta-downloader/internal/domain"
	"github.com/samber/lo"
)

type apiVersion struct {
	URL    string  `json:"url"`
	Width  flexInt `json:"width"`
	Height flexInt `json:"height"`
}

func (v apiVersion) variant() domain.Variant {
	return domain.Variant{URL: v.URL, Width: int(v.Width), Height: int(v.Height)}
}

type apiUser struct {
	PK            flexString `json:"pk"`
	ID            flexString `json:"id"`
	Username      string     `json:"username"`
	FullName      string     `json:"full_name"`
	ProfilePicURL string     `json:"profile_pic_url"`
}

// apiItem is the mobile API media item returned under items[].
type apiItem struct {
	Code           string   `json:"code"`
	TakenAt        int64    `json:"taken_at"`
	ProductType    string   `json:"product_type"`
	User           apiUser  `json:"user"`
	Caption        flexText `json:"caption"`
	LikeCount      flexInt  `json:"like_count"`
	CommentCount   flexInt  `json:"comment_count"`
	PlayCount      flexInt  `json:"play_count"`
	ViewCount      flexInt  `json:"view_count"`
	VideoDuration  float64  `json:"video_duration"`
	ImageVersions2 struct {
		Candidates []apiVersion `json:"candidates"`
	} `json:"image_versions2"`
	VideoVersions []apiVersion `json:"video_versions"`
	CarouselMedia []apiItem    `json:"carousel_media"`
}

func (it *apiItem) isVideo() bool {
	return len(it.VideoVersions) > 0
}

func (it *apiItem) views() int64 {
	return int64(firstPositive(it.PlayCount, it.ViewCount))
}

func (it *apiItem) kind() domain.Kind {
	switch {
	case len(it.CarouselMedia) > 0:
		return domain.KindCarousel
	case it.isVideo() && it.ProductType == "clips":
		return domain.KindReel
	case it.isVideo():
		return domain.KindVideo
	default:
		return domain.KindPhoto
	}
}

func (it *apiItem) mediaItem() domain.MediaItem {
	images := domain.SortVariants(lo.FilterMap(it.ImageVersions2.Candidates, func(v apiVersion, _ int) (domain.Variant, bool) {
		return v.variant(), v.URL != ""
	}))

	item := domain.MediaItem{
		Kind:          domain.MediaPhoto,
		ImageVariants: images,
		Width:         domain.DefaultDimension,
		Height:        domain.DefaultDimension,
	}
	if len(images) > 0 {
		item.PreviewURL = images[0].URL
		item.ThumbnailURL = images[len(images)-1].URL
		item.Width = positiveOr(images[0].Width, domain.DefaultDimension)
		item.Height = positiveOr(images[0].Height, domain.DefaultDimension)
	}

	if it.isVideo() {
		item.Kind = domain.MediaVideo
		item.VideoVariants = domain.SortVariants(lo.FilterMap(it.VideoVersions, func(v apiVersion, _ int) (domain.Variant, bool) {
			return v.variant(), v.URL != ""
		}))
		if len(item.VideoVariants) > 0 {
			item.VideoURL = item.VideoVariants[0].URL
		}
		item.ViewCount = it.views()
		if it.VideoDuration > 0 {
			item.DurationSeconds = lo.ToPtr(it.VideoDuration)
		}
	}
	return item
}

func (it *apiItem) toContent(source string) *domain.Content {
	if it == nil {
		return nil
	}

	var items []domain.MediaItem
	if len(it.CarouselMedia) > 0 {
		items = lo.Map(it.CarouselMedia, func(child apiItem, _ int) domain.MediaItem {
			return child.mediaItem()
		})
	} else {
		items = []domain.MediaItem{it.mediaItem()}
	}

	items = usableItems(items)
	if len(items) == 0 {
		return nil
	}

	return &domain.Content{
		Kind:    it.kind(),
		IsVideo: it.isVideo(),
		Owner: domain.Owner{
			ID:        firstNonEmpty(string(it.User.PK), string(it.User.ID)),
			Username:  it.User.Username,
			FullName:  it.User.FullName,
			AvatarURL: it.User.ProfilePicURL,
		},
		Caption:      string(it.Caption),
		LikeCount:    int64(it.LikeCount),
		CommentCount: int64(it.CommentCount),
		ViewCount:    it.views(),
		PostedAt:     unixTime(it.TakenAt),
		Media:        items,
		Source:       source,
	}
}
