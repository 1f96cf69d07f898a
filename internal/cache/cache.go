package cache

import (
	"context"
	"crypto/md5" //nolint:gosec // key derivation only
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/orgball2608/insta-downloader/internal/domain"
)

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

var ErrUnknownDriver = errors.New("unknown cache driver")

// Store keeps resolved content keyed by shortcode. A miss is (nil, false, nil).
//
//go:generate go run go.uber.org/mock/mockgen -source=cache.go -destination=mocks/mock.go
type Store interface {
	Get(ctx context.Context, key string) (*domain.Content, bool, error)
	Set(ctx context.Context, key string, content *domain.Content, ttl time.Duration) error
}

// Janitor is implemented by stores that need expired entries removed.
type Janitor interface {
	Cleanup(ctx context.Context) (int64, error)
}

// Key derives the cache key for a shortcode.
func Key(shortcode string) string {
	sum := md5.Sum([]byte(shortcode)) //nolint:gosec
	return "instagram_" + hex.EncodeToString(sum[:])
}

func encode(content *domain.Content) ([]byte, error) {
	if content == nil {
		return nil, errors.New("cannot cache nil content")
	}
	data, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("encode content: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*domain.Content, error) {
	var content domain.Content
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	return &content, nil
}
