package cache

import (
	"errors"
	"testing"

	mock_cache "github.com/orgball2608/insta-downloader/internal/cache/mocks"
	"github.com/orgball2608/insta-downloader/pkg/config"
	"github.com/orgball2608/insta-downloader/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"
)

func TestNew_MemoryDriver(t *testing.T) {
	t.Setenv("CACHE_DRIVER", "redis")
	cfg := config.Default()
	cfg.Cache.Driver = DriverMemory
	lc := fxtest.NewLifecycle(t)

	store, err := New(Opts{LC: lc, Config: cfg, Logger: logger.Discard()})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, store)

	lc.RequireStart()
	lc.RequireStop()
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Driver = "memcached"

	_, err := New(Opts{LC: fxtest.NewLifecycle(t), Config: cfg, Logger: logger.Discard()})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestNew_RedisDriverNeedsURL(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Driver = DriverRedis
	cfg.Cache.RedisURL = ""

	_, err := New(Opts{LC: fxtest.NewLifecycle(t), Config: cfg, Logger: logger.Discard()})
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	client, err := NewRedisClient("redis://:secret@localhost:6380/2")
	require.NoError(t, err)
	defer client.Close()
	assert.Equal(t, "localhost:6380", client.Options().Addr)
	assert.Equal(t, 2, client.Options().DB)

	_, err = NewRedisClient("http://localhost")
	assert.Error(t, err)
}

func TestSweeper_Sweep(t *testing.T) {
	ctrl := gomock.NewController(t)
	janitor := mock_cache.NewMockJanitor(ctrl)
	gomock.InOrder(
		janitor.EXPECT().Cleanup(gomock.Any()).Return(int64(2), nil),
		janitor.EXPECT().Cleanup(gomock.Any()).Return(int64(0), errors.New("boom")),
	)

	s, err := NewSweeper(janitor, 0, logger.Discard())
	require.NoError(t, err)

	s.Sweep()
	s.Sweep()

	s.Start()
	require.NoError(t, s.Stop())
}
