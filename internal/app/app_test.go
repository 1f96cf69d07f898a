package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/orgball2608/insta-downloader/internal/instagram"
	"github.com/orgball2608/insta-downloader/pkg/config"
	"github.com/orgball2608/insta-downloader/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.App.Port = 0
	cfg.Telegram.BotToken = ""
	cfg.Cache.Driver = "memory"
	cfg.Resolver.Timeout = 30 * time.Second
	return cfg
}

func TestNew_ValidGraph(t *testing.T) {
	require.NoError(t, fx.ValidateApp(New(testConfig())))
}

func TestNew_StartsWithoutBot(t *testing.T) {
	var r instagram.Resolver
	app := fxtest.New(t, New(testConfig()), fx.Populate(&r))
	app.RequireStart()
	assert.NotNil(t, r)
	app.RequireStop()
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	healthCheckHandler(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil), logger.Discard())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
}

type stubCommand struct {
	calls atomic.Int32
}

func (s *stubCommand) HandleCommand(ctx context.Context) error {
	s.calls.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func TestRunBot_StopsWithLifecycle(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	cmd := &stubCommand{}
	runBot(lc, logger.Discard(), cmd)

	lc.RequireStart()
	assert.Eventually(t, func() bool { return cmd.calls.Load() == 1 }, time.Second, 10*time.Millisecond)
	lc.RequireStop()
}

type failingCommand struct {
	calls atomic.Int32
}

func (f *failingCommand) HandleCommand(context.Context) error {
	f.calls.Add(1)
	return errors.New("updates closed")
}

func TestRunBot_StopDuringRestartDelay(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	cmd := &failingCommand{}
	runBot(lc, logger.Discard(), cmd)

	lc.RequireStart()
	assert.Eventually(t, func() bool { return cmd.calls.Load() == 1 }, time.Second, 10*time.Millisecond)
	lc.RequireStop()
	assert.Equal(t, int32(1), cmd.calls.Load())
}
