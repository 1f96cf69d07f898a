package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/orgball2608/insta-downloader/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	payload []byte
	err     error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.payload
	return nil
}

type fakeExecutor struct {
	sql  []string
	args [][]any
	row  fakeRow
	tag  pgconn.CommandTag
	err  error
}

func (f *fakeExecutor) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql = append(f.sql, sql)
	f.args = append(f.args, args)
	return f.tag, f.err
}

func (f *fakeExecutor) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.sql = append(f.sql, sql)
	f.args = append(f.args, args)
	return f.row
}

var fixedNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestPostgres(exec *fakeExecutor) *Postgres {
	p := NewPostgres(exec)
	p.now = func() time.Time { return fixedNow }
	return p
}

func TestPostgres_SetUpserts(t *testing.T) {
	exec := &fakeExecutor{}
	p := newTestPostgres(exec)

	content := &domain.Content{Shortcode: "ABC", Caption: "hi"}
	require.NoError(t, p.Set(context.Background(), Key("ABC"), content, 30*time.Minute))

	require.Len(t, exec.sql, 1)
	assert.Equal(t,
		"INSERT INTO content_cache (cache_key,shortcode,payload,expires_at,created_at) VALUES ($1,$2,$3,$4,$5) "+
			"ON CONFLICT (cache_key) DO UPDATE SET payload = EXCLUDED.payload, expires_at = EXCLUDED.expires_at, created_at = EXCLUDED.created_at",
		exec.sql[0])

	args := exec.args[0]
	assert.Equal(t, Key("ABC"), args[0])
	assert.Equal(t, "ABC", args[1])
	assert.Equal(t, fixedNow.Add(30*time.Minute), args[3])

	var stored domain.Content
	require.NoError(t, json.Unmarshal(args[2].([]byte), &stored))
	assert.Equal(t, "hi", stored.Caption)
}

func TestPostgres_GetHitAndMiss(t *testing.T) {
	payload, err := json.Marshal(domain.Content{Shortcode: "ABC", Kind: domain.KindPhoto})
	require.NoError(t, err)

	exec := &fakeExecutor{row: fakeRow{payload: payload}}
	p := newTestPostgres(exec)

	got, ok, err := p.Get(context.Background(), "key")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.KindPhoto, got.Kind)
	assert.Equal(t, "SELECT payload FROM content_cache WHERE cache_key = $1 AND expires_at > $2", exec.sql[0])
	assert.Equal(t, []any{"key", fixedNow}, exec.args[0])

	exec.row = fakeRow{err: pgx.ErrNoRows}
	_, ok, err = p.Get(context.Background(), "key")
	require.NoError(t, err)
	assert.False(t, ok)

	exec.row = fakeRow{err: errors.New("conn closed")}
	_, _, err = p.Get(context.Background(), "key")
	assert.Error(t, err)
}

func TestPostgres_Cleanup(t *testing.T) {
	exec := &fakeExecutor{tag: pgconn.NewCommandTag("DELETE 3")}
	p := newTestPostgres(exec)

	removed, err := p.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.Equal(t, "DELETE FROM content_cache WHERE expires_at <= $1", exec.sql[0])
}

func TestPostgres_SetRejectsNil(t *testing.T) {
	exec := &fakeExecutor{}
	assert.Error(t, newTestPostgres(exec).Set(context.Background(), "k", nil, time.Minute))
	assert.Empty(t, exec.sql)
}
