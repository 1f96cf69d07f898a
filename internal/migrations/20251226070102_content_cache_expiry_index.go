package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upContentCacheExpiryIndex, downContentCacheExpiryIndex)
}

func upContentCacheExpiryIndex(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE INDEX IF NOT EXISTS content_cache_expires_at_idx ON content_cache (expires_at);
	CREATE INDEX IF NOT EXISTS content_cache_shortcode_idx ON content_cache (shortcode);
	`)
	return err
}

func downContentCacheExpiryIndex(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	DROP INDEX IF EXISTS content_cache_shortcode_idx;
	DROP INDEX IF EXISTS content_cache_expires_at_idx;
	`)
	return err
}
