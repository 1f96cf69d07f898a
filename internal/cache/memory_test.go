package cache

import (
	"context"
	"testing"
	"time"

	"github.com/orgball2608/insta-downloader/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestMemory(max int) (*Memory, *clock) {
	c := &clock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMemory(max)
	m.now = c.now
	return m, c
}

func TestMemory_GetSetAndTTL(t *testing.T) {
	ctx := context.Background()
	m, clk := newTestMemory(0)
	content := &domain.Content{Shortcode: "ABC"}

	_, ok, err := m.Get(ctx, Key("ABC"))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, Key("ABC"), content, 30*time.Minute))

	got, ok, err := m.Get(ctx, Key("ABC"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, content, got)

	clk.advance(29 * time.Minute)
	_, ok, _ = m.Get(ctx, Key("ABC"))
	assert.True(t, ok)

	clk.advance(time.Minute)
	_, ok, _ = m.Get(ctx, Key("ABC"))
	assert.False(t, ok, "entry must expire exactly at its TTL")
	assert.Equal(t, 0, m.Len())
}

func TestMemory_OverwriteRefreshesTTL(t *testing.T) {
	ctx := context.Background()
	m, clk := newTestMemory(0)

	require.NoError(t, m.Set(ctx, "k", &domain.Content{Caption: "old"}, time.Minute))
	clk.advance(50 * time.Second)
	require.NoError(t, m.Set(ctx, "k", &domain.Content{Caption: "new"}, time.Minute))
	clk.advance(50 * time.Second)

	got, ok, _ := m.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "new", got.Caption)
}

func TestMemory_EvictsWhenFull(t *testing.T) {
	ctx := context.Background()
	m, clk := newTestMemory(2)

	require.NoError(t, m.Set(ctx, "a", &domain.Content{}, time.Minute))
	clk.advance(time.Second)
	require.NoError(t, m.Set(ctx, "b", &domain.Content{}, time.Minute))
	clk.advance(time.Second)
	require.NoError(t, m.Set(ctx, "c", &domain.Content{}, time.Minute))

	assert.Equal(t, 2, m.Len())
	_, ok, _ := m.Get(ctx, "a")
	assert.False(t, ok, "entry closest to expiry is evicted first")
	_, ok, _ = m.Get(ctx, "c")
	assert.True(t, ok)
}

func TestMemory_Cleanup(t *testing.T) {
	ctx := context.Background()
	m, clk := newTestMemory(0)

	require.NoError(t, m.Set(ctx, "short", &domain.Content{}, time.Minute))
	require.NoError(t, m.Set(ctx, "long", &domain.Content{}, time.Hour))
	clk.advance(2 * time.Minute)

	removed, err := m.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Equal(t, 1, m.Len())
}

func TestMemory_IgnoresNil(t *testing.T) {
	m, _ := newTestMemory(0)
	require.NoError(t, m.Set(context.Background(), "k", nil, time.Minute))
	assert.Equal(t, 0, m.Len())
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("ABC123"), Key("ABC123"))
	assert.NotEqual(t, Key("ABC123"), Key("abc123"))
	assert.Regexp(t, `^instagram_[0-9a-f]{32}$`, Key("ABC123"))
}
