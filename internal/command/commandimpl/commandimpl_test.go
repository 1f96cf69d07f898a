package commandimpl

import (
	"context"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/insta-downloader/internal/domain"
	"github.com/orgball2608/insta-downloader/internal/instagram"
	mock_instagram "github.com/orgball2608/insta-downloader/internal/instagram/mocks"
	mock_telegram "github.com/orgball2608/insta-downloader/internal/telegram/mocks"
	"github.com/orgball2608/insta-downloader/pkg/config"
	apperrors "github.com/orgball2608/insta-downloader/pkg/errors"
	"github.com/orgball2608/insta-downloader/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const chatID int64 = 1

type fixture struct {
	resolver *mock_instagram.MockResolver
	tg       *mock_telegram.MockClient
	cmd      *CommandImpl
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		resolver: mock_instagram.NewMockResolver(ctrl),
		tg:       mock_telegram.NewMockClient(ctrl),
	}
	f.cmd = New(Opts{Resolver: f.resolver, Telegram: f.tg, Logger: logger.Discard(), Config: config.Default()})
	return f
}

type textMatcher struct {
	fn func(string) bool
}

func (m textMatcher) Matches(x any) bool {
	s, ok := x.(string)
	return ok && m.fn(s)
}

func (m textMatcher) String() string { return "text matching predicate" }

func textWhere(fn func(string) bool) gomock.Matcher {
	return textMatcher{fn: fn}
}

func commandUpdate(text string) tgbotapi.Update {
	cmd, _, _ := strings.Cut(text, " ")
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		From:     &tgbotapi.User{UserName: "tester"},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}}
}

func textUpdate(text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: chatID},
		From: &tgbotapi.User{UserName: "tester"},
	}}
}

func carousel() *domain.Content {
	return &domain.Content{
		Shortcode:     "CAR",
		Kind:          domain.KindCarousel,
		IsCarousel:    true,
		CarouselCount: 2,
		Owner:         domain.Owner{Username: "someone"},
		Caption:       "two pictures",
		Media: []domain.MediaItem{
			{Index: 0, Kind: domain.MediaPhoto, PreviewURL: "https://cdn.example/0.jpg"},
			{Index: 1, Kind: domain.MediaVideo, PreviewURL: "https://cdn.example/1.jpg", VideoURL: "https://cdn.example/1.mp4"},
		},
	}
}

func reel() *domain.Content {
	d := 75.0
	return &domain.Content{
		Shortcode:       "R1",
		Kind:            domain.KindReel,
		IsVideo:         true,
		Owner:           domain.Owner{Username: "dancer", FullName: "Dancer (Official)"},
		Caption:         "moves!",
		LikeCount:       1234567,
		CommentCount:    89,
		ViewCount:       1000,
		Resolution:      "1080 × 1920",
		DurationSeconds: &d,
		Source:          "graphql",
		DownloadOptions: domain.BuildDownloadOptions(domain.KindReel, true),
		Media: []domain.MediaItem{{
			Kind:       domain.MediaVideo,
			PreviewURL: "https://cdn.example/r.jpg",
			VideoURL:   "https://cdn.example/r.mp4",
		}},
	}
}

func TestProcessUpdate_Help(t *testing.T) {
	f := newFixture(t)
	f.tg.EXPECT().SendMessage(chatID, helpMessage).Return(1, nil).Times(2)

	f.cmd.processUpdate(context.Background(), commandUpdate("/start"))
	f.cmd.processUpdate(context.Background(), commandUpdate("/help"))
}

func TestProcessUpdate_UnknownCommand(t *testing.T) {
	f := newFixture(t)
	f.tg.EXPECT().SendMessage(chatID, textWhere(func(s string) bool {
		return strings.HasPrefix(s, "Unknown command")
	})).Return(1, nil)

	f.cmd.processUpdate(context.Background(), commandUpdate("/story someone"))
}

func TestPost_SendsAlbum(t *testing.T) {
	f := newFixture(t)
	const url = "https://www.instagram.com/p/CAR/"

	gomock.InOrder(
		f.tg.EXPECT().SendMessage(chatID, gomock.Any()).Return(10, nil),
		f.resolver.EXPECT().Resolve(gomock.Any(), url).Return(carousel(), nil),
		f.tg.EXPECT().SendMediaGroup(chatID, gomock.Len(2), "From @someone:\n\ntwo pictures").
			DoAndReturn(func(_ int64, items []domain.DownloadInfo, _ string) error {
				assert.Equal(t, "instagram_photo_CAR_1.jpg", items[0].Filename)
				assert.Equal(t, "instagram_video_CAR_2.mp4", items[1].Filename)
				return nil
			}),
		f.tg.EXPECT().EditMessageText(chatID, 10, "✅ Successfully sent 2 media item(s) from the post.").Return(nil),
	)

	require.NoError(t, f.cmd.processCommand(context.Background(), commandUpdate("/post "+url)))
}

func TestPost_ResolveFailureIsReported(t *testing.T) {
	f := newFixture(t)
	const url = "https://www.instagram.com/p/GONE/"

	f.tg.EXPECT().SendMessage(chatID, gomock.Any()).Return(10, nil)
	f.resolver.EXPECT().Resolve(gomock.Any(), url).Return(nil, apperrors.NotFound("GONE", "graphql: no data"))
	f.tg.EXPECT().EditMessageText(chatID, 10, textWhere(func(s string) bool {
		return strings.Contains(s, "private or deleted") && !strings.Contains(s, "graphql")
	})).Return(nil)

	require.NoError(t, f.cmd.processCommand(context.Background(), commandUpdate("/post "+url)))
}

func TestPost_MissingURL(t *testing.T) {
	f := newFixture(t)
	f.tg.EXPECT().SendMessage(chatID, "Please provide a post URL: /post <instagram_post_url>").Return(1, nil)

	require.NoError(t, f.cmd.processCommand(context.Background(), commandUpdate("/post")))
}

func TestReel_SendsBestVideo(t *testing.T) {
	f := newFixture(t)
	const url = "https://www.instagram.com/reel/R1/"

	f.tg.EXPECT().SendMessage(chatID, gomock.Any()).Return(10, nil)
	f.resolver.EXPECT().Resolve(gomock.Any(), url).Return(reel(), nil)
	f.tg.EXPECT().EditMessageText(chatID, 10, gomock.Any()).Return(nil)
	f.tg.EXPECT().SendMedia(chatID, gomock.Any(), "From @dancer:\n\nmoves!").
		DoAndReturn(func(_ int64, info domain.DownloadInfo, _ string) error {
			assert.Equal(t, domain.OutputVideo, info.Type)
			assert.Equal(t, "https://cdn.example/r.mp4", info.URL)
			assert.Equal(t, "instagram_reel_R1.mp4", info.Filename)
			return nil
		})

	require.NoError(t, f.cmd.processCommand(context.Background(), commandUpdate("/reel "+url)))
}

func TestDownload_SelectsRequestedItem(t *testing.T) {
	f := newFixture(t)
	const url = "https://www.instagram.com/p/CAR/"

	f.tg.EXPECT().SendMessage(chatID, gomock.Any()).Return(10, nil)
	f.resolver.EXPECT().Resolve(gomock.Any(), url).Return(carousel(), nil)
	f.tg.EXPECT().SendMedia(chatID, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ int64, info domain.DownloadInfo, _ string) error {
			assert.Equal(t, domain.OutputAudio, info.Type)
			assert.Equal(t, "instagram_audio_CAR_2.mp3", info.Filename)
			return nil
		})
	f.tg.EXPECT().EditMessageText(chatID, 10, textWhere(func(s string) bool {
		return strings.Contains(s, "instagram_audio_CAR_2.mp3")
	})).Return(nil)

	require.NoError(t, f.cmd.processCommand(context.Background(), commandUpdate("/download "+url+" 2 audio")))
}

func TestDownload_All(t *testing.T) {
	f := newFixture(t)
	const url = "https://www.instagram.com/p/CAR/"

	f.tg.EXPECT().SendMessage(chatID, gomock.Any()).Return(10, nil)
	f.resolver.EXPECT().Resolve(gomock.Any(), url).Return(carousel(), nil)
	f.tg.EXPECT().SendMedia(chatID, gomock.Any(), gomock.Not("")).Return(nil)
	f.tg.EXPECT().SendMedia(chatID, gomock.Any(), "").Return(nil)
	f.tg.EXPECT().EditMessageText(chatID, 10, "✅ Sent 2 files").Return(nil)

	require.NoError(t, f.cmd.processCommand(context.Background(), commandUpdate("/download "+url+" all png")))
}

func TestDownload_BadOption(t *testing.T) {
	f := newFixture(t)
	f.tg.EXPECT().SendMessage(chatID, textWhere(func(s string) bool {
		return strings.Contains(s, `"bmp"`) && strings.Contains(s, "Usage: /download")
	})).Return(1, nil)

	require.NoError(t, f.cmd.processCommand(context.Background(), commandUpdate("/download https://www.instagram.com/p/A/ bmp")))
}

func TestParseDownloadArgs(t *testing.T) {
	got, err := parseDownloadArgs("https://www.instagram.com/p/A/ 3 sd mp4")
	require.NoError(t, err)
	assert.Equal(t, "https://www.instagram.com/p/A/", got.URL)
	assert.Equal(t, 2, got.Index)
	assert.Equal(t, domain.QualitySD, got.Quality)
	assert.Equal(t, domain.FormatMP4, got.Format)
	assert.False(t, got.All)

	got, err = parseDownloadArgs("u .JPEG ALL")
	require.NoError(t, err)
	assert.Equal(t, domain.FormatJPG, got.Format)
	assert.Equal(t, domain.QualityHD, got.Quality)
	assert.True(t, got.All)
	assert.Equal(t, 0, got.Index)

	_, err = parseDownloadArgs("  ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestInfo_SendsMarkdownSummary(t *testing.T) {
	f := newFixture(t)
	const url = "https://www.instagram.com/reel/R1/"

	f.tg.EXPECT().SendMessage(chatID, gomock.Any()).Return(10, nil)
	f.resolver.EXPECT().Resolve(gomock.Any(), url).Return(reel(), nil)
	f.tg.EXPECT().SendMarkdown(chatID, gomock.Any()).
		DoAndReturn(func(_ int64, text string) (int, error) {
			assert.True(t, strings.HasPrefix(text, "*REEL by @dancer*"))
			assert.Contains(t, text, `Dancer \(Official\)`)
			assert.Contains(t, text, "moves\\!")
			assert.Contains(t, text, "1,234,567")
			assert.Contains(t, text, "Duration: 1:15")
			assert.Contains(t, text, `HD Quality \(1080p, \~15 MB\)`)
			return 11, nil
		})
	f.tg.EXPECT().EditMessageText(chatID, 10, "✅ Done").Return(nil)

	require.NoError(t, f.cmd.processCommand(context.Background(), commandUpdate("/info "+url)))
}

func TestLinks_ResolvedTogether(t *testing.T) {
	f := newFixture(t)
	good := "https://www.instagram.com/reel/R1/"
	bad := "https://www.instagram.com/p/GONE/"

	f.resolver.EXPECT().ResolveMany(gomock.Any(), []string{good, bad}).Return([]instagram.Result{
		{URL: good, Content: reel()},
		{URL: bad, Err: apperrors.NotFound("GONE", "all failed")},
	})
	f.tg.EXPECT().SendMedia(chatID, gomock.Any(), gomock.Any()).Return(nil)
	f.tg.EXPECT().SendMessage(chatID, textWhere(func(s string) bool {
		return strings.Contains(s, bad)
	})).Return(2, nil)

	f.cmd.processUpdate(context.Background(), textUpdate("look "+good+" and "+bad))
}

func TestLinks_PlainChatterIgnored(t *testing.T) {
	f := newFixture(t)
	f.cmd.processUpdate(context.Background(), textUpdate("hello there"))
	f.cmd.processUpdate(context.Background(), tgbotapi.Update{})
}

func TestHandleCommand_StopsOnCancel(t *testing.T) {
	f := newFixture(t)
	updates := make(chan tgbotapi.Update)
	f.tg.EXPECT().GetUpdatesChan(gomock.Any()).Return(tgbotapi.UpdatesChannel(updates))
	f.tg.EXPECT().StopReceivingUpdates()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, f.cmd.HandleCommand(ctx), context.Canceled)
}

func TestHandleCommand_ClosedChannel(t *testing.T) {
	f := newFixture(t)
	updates := make(chan tgbotapi.Update)
	close(updates)
	f.tg.EXPECT().GetUpdatesChan(gomock.Any()).Return(tgbotapi.UpdatesChannel(updates))

	assert.ErrorIs(t, f.cmd.HandleCommand(context.Background()), ErrUpdatesClosed)
}
