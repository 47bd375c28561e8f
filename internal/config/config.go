package config

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfighcl"
)

const (
	BackendNewsAPI = "newsapi"
	BackendRSS     = "rss"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var DefaultFiles = []string{"./config.hcl", "./config.local.hcl", "$HOME/.config/news-app/config.hcl"}

type Config struct {
	NewsAPIKey      string        `hcl:"news_api_key" env:"NEWS_API_KEY"`
	NewsAPIBaseURL  string        `hcl:"news_api_base_url" env:"NEWS_API_BASE_URL" default:"https://newsapi.org/v2/"`
	FeedBackend     string        `hcl:"feed_backend" env:"FEED_BACKEND" default:"newsapi"`
	RSSFeeds        []string      `hcl:"rss_feeds" env:"RSS_FEEDS"`
	Sources         []string      `hcl:"sources" env:"SOURCES" default:"bbc-news,abc-news,al-jazeera-english"`
	PageSize        int           `hcl:"page_size" env:"PAGE_SIZE" default:"10"`
	RequestTimeout  time.Duration `hcl:"request_timeout" env:"REQUEST_TIMEOUT" default:"30s"`
	RequestInterval time.Duration `hcl:"request_interval" env:"REQUEST_INTERVAL" default:"0s"`

	DatabaseDriver string `hcl:"database_driver" env:"DATABASE_DRIVER" default:"sqlite"`
	DatabaseDSN    string `hcl:"database_dsn" env:"DATABASE_DSN"`
	SeedDemo       bool   `hcl:"seed_demo" env:"SEED_DEMO" default:"true"`

	HTTPAddr             string        `hcl:"http_addr" env:"HTTP_ADDR" default:"127.0.0.1:8088"`
	SessionIdleTimeout   time.Duration `hcl:"session_idle_timeout" env:"SESSION_IDLE_TIMEOUT" default:"30m"`
	ConnectivityURL      string        `hcl:"connectivity_url" env:"CONNECTIVITY_URL" default:"https://newsapi.org"`
	ConnectivityInterval time.Duration `hcl:"connectivity_interval" env:"CONNECTIVITY_INTERVAL" default:"30s"`

	TelegramBotToken string `hcl:"telegram_bot_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64  `hcl:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
	TelegramAdminID  int64  `hcl:"telegram_admin_id" env:"TELEGRAM_ADMIN_ID"`

	AIType    string        `hcl:"ai_type" env:"AI_TYPE" default:"none"`
	AIBaseURL string        `hcl:"ai_base_url" env:"AI_BASE_URL"`
	AIKey     string        `hcl:"ai_key" env:"AI_KEY"`
	AIPrompt  string        `hcl:"ai_prompt" env:"AI_PROMPT" default:"Summarize the following news article in three sentences."`
	AIModel   string        `hcl:"ai_model" env:"AI_MODEL" default:"llama3"`
	AITimeout time.Duration `hcl:"ai_timeout" env:"AI_TIMEOUT" default:"5m"`
}

// RSSFeedURLs parses rss_feeds entries of the form "source-id=https://feed/url".
func (c Config) RSSFeedURLs() (map[string]string, error) {
	feeds := make(map[string]string, len(c.RSSFeeds))
	for _, entry := range c.RSSFeeds {
		id, url, ok := strings.Cut(entry, "=")
		id, url = strings.TrimSpace(id), strings.TrimSpace(url)
		if !ok || id == "" || url == "" {
			return nil, fmt.Errorf("invalid rss_feeds entry %q, want id=url", entry)
		}
		feeds[id] = url
	}
	return feeds, nil
}

func (c Config) Validate() error {
	switch c.FeedBackend {
	case BackendNewsAPI, BackendRSS:
	default:
		return fmt.Errorf("unknown feed_backend %q", c.FeedBackend)
	}

	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown database_driver %q", c.DatabaseDriver)
	}

	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}

	if c.DatabaseDriver == DriverPostgres && c.DatabaseDSN == "" {
		return fmt.Errorf("database_dsn is required when database_driver is %q", DriverPostgres)
	}

	return nil
}

// Load reads configuration from the given HCL files and NEWSAPP_* env vars.
// Missing files are skipped.
func Load(files ...string) (Config, error) {
	var c Config

	loader := aconfig.LoaderFor(&c, aconfig.Config{
		EnvPrefix: "NEWSAPP",
		SkipFlags: true,
		Files:     files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".hcl": aconfighcl.New(),
		},
	})

	if err := loader.Load(); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}

	return c, nil
}

var (
	cfg  Config
	once sync.Once
)

func Get() Config {
	once.Do(func() {
		var err error
		cfg, err = Load(DefaultFiles...)
		if err != nil {
			slog.Error("failed to load config", "err", err)
		}
	})

	return cfg
}
