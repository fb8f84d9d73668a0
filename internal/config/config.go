package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server-side settings
	DatabaseDSN string `env:"DATABASE_URI"`
	AuthSecret  string `env:"AUTH_SECRET"`
	SeedDemo    bool   `env:"SEED_DEMO"`

	// Хранилище снапшотов сессии: "db" (таблица snapshots) или "s3"
	SnapshotBackend   string `env:"SNAPSHOT_BACKEND"`
	S3Bucket          string `env:"S3_BUCKET"`
	S3Region          string `env:"S3_REGION"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3Prefix          string `env:"S3_PREFIX"`

	// Колода, фоновые записи, сессии
	DeckLimit             int `env:"DECK_LIMIT"`
	WriteQueueSize        int `env:"WRITE_QUEUE_SIZE"`
	SessionIdleMinutes    int `env:"SESSION_IDLE_MINUTES"`
	ConversationCacheSize int `env:"CONVERSATION_CACHE_SIZE"`
	RateLimitRPS          int `env:"RATE_LIMIT_RPS"`
	RateLimitBurst        int `env:"RATE_LIMIT_BURST"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL string `env:"-"`
	TokenFile string `env:"TOKEN_FILE"`
	Version   bool   `env:"-"` // show client version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (postgres://... или путь к sqlite)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.BoolVar(&cfg.SeedDemo, "seed-demo", cfg.SeedDemo, "заполнить пустую БД демо-данными")
	flag.StringVar(&cfg.SnapshotBackend, "snapshots", cfg.SnapshotBackend, "хранилище снапшотов: db|s3")
	flag.IntVar(&cfg.DeckLimit, "deck-limit", cfg.DeckLimit, "максимальный размер колоды")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "base URL of the Trades server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	// Client flags
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "path to auth token file (client)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	// Defaults
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = "file:trades.db?_pragma=busy_timeout(5000)"
	}
	if cfg.SnapshotBackend != "s3" {
		cfg.SnapshotBackend = "db"
	}
	if cfg.S3Region == "" {
		cfg.S3Region = "auto"
	}
	if cfg.DeckLimit <= 0 {
		cfg.DeckLimit = 50
	}
	if cfg.WriteQueueSize <= 0 {
		cfg.WriteQueueSize = 256
	}
	if cfg.SessionIdleMinutes <= 0 {
		cfg.SessionIdleMinutes = 60
	}
	if cfg.ConversationCacheSize <= 0 {
		cfg.ConversationCacheSize = 128
	}
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 20
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 2 * cfg.RateLimitRPS
	}

	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	if cfg.TokenFile == "" {
		home, _ := os.UserHomeDir()
		cfg.TokenFile = filepath.Join(home, ".trades_token")
	}

	return cfg
}
