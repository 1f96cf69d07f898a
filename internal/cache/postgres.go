package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/orgball2608/insta-downloader/internal/domain"
)

const contentTable = "content_cache"

var (
	sqBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	ErrBadQuery = errors.New("bad query")
)

// pgExecutor is the subset of *pgxpool.Pool the store needs.
type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres keeps content in the content_cache table. Expired rows are
// ignored on read and removed by Cleanup.
type Postgres struct {
	pg  pgExecutor
	now func() time.Time
}

var (
	_ Store   = (*Postgres)(nil)
	_ Janitor = (*Postgres)(nil)
)

func NewPostgres(pg pgExecutor) *Postgres {
	return &Postgres{pg: pg, now: time.Now}
}

func (p *Postgres) Get(ctx context.Context, key string) (*domain.Content, bool, error) {
	query, args, err := sqBuilder.
		Select("payload").
		From(contentTable).
		Where(sq.Eq{"cache_key": key}).
		Where(sq.Gt{"expires_at": p.now()}).
		ToSql()
	if err != nil {
		return nil, false, ErrBadQuery
	}

	var payload []byte
	if err := p.pg.QueryRow(ctx, query, args...).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("select cached content: %w", err)
	}

	content, err := decode(payload)
	if err != nil {
		return nil, false, err
	}
	return content, true, nil
}

func (p *Postgres) Set(ctx context.Context, key string, content *domain.Content, ttl time.Duration) error {
	payload, err := encode(content)
	if err != nil {
		return err
	}

	now := p.now()
	query, args, err := sqBuilder.
		Insert(contentTable).
		Columns("cache_key", "shortcode", "payload", "expires_at", "created_at").
		Values(key, content.Shortcode, payload, now.Add(ttl), now).
		Suffix("ON CONFLICT (cache_key) DO UPDATE SET payload = EXCLUDED.payload, expires_at = EXCLUDED.expires_at, created_at = EXCLUDED.created_at").
		ToSql()
	if err != nil {
		return ErrBadQuery
	}

	if _, err := p.pg.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert cached content: %w", err)
	}
	return nil
}

// Cleanup deletes rows that have already expired.
func (p *Postgres) Cleanup(ctx context.Context) (int64, error) {
	query, args, err := sqBuilder.
		Delete(contentTable).
		Where(sq.LtOrEq{"expires_at": p.now()}).
		ToSql()
	if err != nil {
		return 0, ErrBadQuery
	}

	tag, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired content: %w", err)
	}
	return tag.RowsAffected(), nil
}
