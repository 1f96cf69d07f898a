package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Telegram struct {
		BotToken string `env:"TELEGRAM_BOT_TOKEN"`
	}
	Instagram struct {
		BaseURL          string `env:"INSTAGRAM_BASE_URL" env-default:"https://www.instagram.com"`
		OEmbedURL        string `env:"INSTAGRAM_OEMBED_URL" env-default:"https://api.instagram.com/oembed/"`
		GraphQLQueryHash string `env:"INSTAGRAM_GRAPHQL_QUERY_HASH" env-default:"b3055c01b4b222b8a47dc12b090e4e64"`
		AppID            string `env:"INSTAGRAM_APP_ID" env-default:"936619743392459"`
		UserAgent        string `env:"INSTAGRAM_USER_AGENT" env-default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"`
	}
	HTTP struct {
		Timeout            time.Duration `env:"HTTP_TIMEOUT" env-default:"30s"`
		ConnectTimeout     time.Duration `env:"HTTP_CONNECT_TIMEOUT" env-default:"10s"`
		InsecureSkipVerify bool          `env:"HTTP_INSECURE_SKIP_VERIFY" env-default:"false"`
		MaxRetries         uint64        `env:"HTTP_MAX_RETRIES" env-default:"1"`
		RatePerSecond      float64       `env:"HTTP_RATE_PER_SECOND" env-default:"5"`
		RateBurst          int           `env:"HTTP_RATE_BURST" env-default:"10"`
	}
	Resolver struct {
		Timeout time.Duration `env:"RESOLVER_TIMEOUT" env-default:"60s"`
		Workers int           `env:"RESOLVER_WORKERS" env-default:"4"`
	}
	Cache struct {
		Driver          string        `env:"CACHE_DRIVER" env-default:"memory"`
		TTL             time.Duration `env:"CACHE_TTL" env-default:"30m"`
		MaxEntries      int           `env:"CACHE_MAX_ENTRIES" env-default:"10000"`
		CleanupInterval time.Duration `env:"CACHE_CLEANUP_INTERVAL" env-default:"5m"`
		RedisURL        string        `env:"CACHE_REDIS_URL"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host    string `env:"POSTGRES_HOST" env-default:"localhost"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}

// Default reads a fresh configuration from the environment, falling back to
// env-default tags, without touching the process-wide singleton. Tests
// should set any field they depend on explicitly.
func Default() *Config {
	c := &Config{}
	if err := cleanenv.ReadEnv(c); err != nil {
		log.Fatalf("Failed to read default configuration: %v", err)
	}
	return c
}

// GetDSN returns the postgres connection string.
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Pass,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.Name,
		c.Postgres.SslMode,
	)
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
