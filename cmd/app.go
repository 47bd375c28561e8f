package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"maps"
	"net/http"
	"slices"

	"github.com/adrg/xdg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"

	"github.com/0x0BSoD/newsApp/internal/appentry"
	"github.com/0x0BSoD/newsApp/internal/catalog"
	"github.com/0x0BSoD/newsApp/internal/config"
	"github.com/0x0BSoD/newsApp/internal/fetcher"
	"github.com/0x0BSoD/newsApp/internal/model"
	"github.com/0x0BSoD/newsApp/internal/notifier"
	"github.com/0x0BSoD/newsApp/internal/reader"
	"github.com/0x0BSoD/newsApp/internal/reporter"
	"github.com/0x0BSoD/newsApp/internal/source"
	"github.com/0x0BSoD/newsApp/internal/storage"
	"github.com/0x0BSoD/newsApp/internal/summary"
)

// app holds everything the commands share. It is built once per invocation
// and closed when the command returns.
type app struct {
	cfg      config.Config
	db       *sqlx.DB
	articles *storage.ArticleStorage
	catalog  *catalog.Catalog
	entry    *appentry.Manager

	bot *tgbotapi.BotAPI
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dsn, err := databaseDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(ctx, cfg.DatabaseDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	client, err := feedClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	articles := storage.NewArticleStorage(db)
	a := &app{
		cfg:      cfg,
		db:       db,
		articles: articles,
		catalog:  catalog.New(client, articles, cfg.PageSize),
		entry:    appentry.New(storage.NewPreferences(db)),
	}

	if cfg.SeedDemo {
		if err := a.catalog.SeedDemo(ctx); err != nil {
			log.Printf("[ERROR] failed to seed demo article: %v", err)
		}
	}

	return a, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		log.Printf("[ERROR] failed to close db: %v", err)
	}
}

func databaseDSN(cfg config.Config) (string, error) {
	if cfg.DatabaseDSN != "" || cfg.DatabaseDriver != config.DriverSQLite {
		return cfg.DatabaseDSN, nil
	}

	path, err := xdg.DataFile("news-app/" + storage.DatabaseName)
	if err != nil {
		return "", fmt.Errorf("failed to resolve database path: %w", err)
	}
	return path, nil
}

// missingKeyClient lets bookmark commands run without a news API key and
// fails every feed load with a readable error.
type missingKeyClient struct{}

var errNoAPIKey = errors.New("news_api_key is not set")

func (missingKeyClient) FetchPage(context.Context, []string, int) (model.Page, error) {
	return model.Page{}, errNoAPIKey
}

func (missingKeyClient) SearchPage(context.Context, string, []string, int) (model.Page, error) {
	return model.Page{}, errNoAPIKey
}

func feedClient(cfg config.Config) (fetcher.FeedClient, error) {
	switch cfg.FeedBackend {
	case config.BackendRSS:
		feeds, err := cfg.RSSFeedURLs()
		if err != nil {
			return nil, err
		}
		log.Printf("[INFO] using rss backend (%d feeds)", len(feeds))
		return source.NewRSS(feeds, cfg.RequestTimeout), nil
	default:
		if cfg.NewsAPIKey == "" {
			return missingKeyClient{}, nil
		}
		client, err := source.NewNewsAPI(
			cfg.NewsAPIBaseURL,
			cfg.NewsAPIKey,
			source.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
			source.WithRequestInterval(cfg.RequestInterval),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create news api client: %w", err)
		}
		return client, nil
	}
}

func (a *app) sources() []string {
	if a.cfg.FeedBackend == config.BackendRSS {
		feeds, _ := a.cfg.RSSFeedURLs()
		return slices.Sorted(maps.Keys(feeds))
	}
	if len(a.cfg.Sources) == 0 {
		return catalog.DefaultSources
	}
	return a.cfg.Sources
}

func (a *app) summarizer() summary.Summarizer {
	s, err := summary.New(summary.Options{
		Type:    a.cfg.AIType,
		BaseURL: a.cfg.AIBaseURL,
		Key:     a.cfg.AIKey,
		Prompt:  a.cfg.AIPrompt,
		Model:   a.cfg.AIModel,
		Timeout: a.cfg.AITimeout,
	})
	if err != nil {
		log.Printf("[ERROR] summaries disabled: %v", err)
		return nil
	}
	if s != nil {
		log.Printf("[INFO] using %s summarizer (model: %s)", a.cfg.AIType, a.cfg.AIModel)
	}
	return s
}

func (a *app) reader() *reader.Reader {
	return reader.New(&http.Client{Timeout: a.cfg.RequestTimeout}, a.summarizer())
}

// telegram connects the bot lazily; only share and serve need it.
func (a *app) telegram() (*tgbotapi.BotAPI, error) {
	if a.bot != nil {
		return a.bot, nil
	}
	if a.cfg.TelegramBotToken == "" {
		return nil, errors.New("telegram_bot_token is not set")
	}

	bot, err := tgbotapi.NewBotAPI(a.cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create botAPI: %w", err)
	}
	a.bot = bot
	return bot, nil
}

func (a *app) notifier() (*notifier.Notifier, error) {
	bot, err := a.telegram()
	if err != nil {
		return nil, err
	}
	return notifier.New(bot, a.cfg.TelegramChatID), nil
}

// reporter is nil when no admin chat is configured.
func (a *app) reporter() *reporter.Reporter {
	if a.cfg.TelegramAdminID == 0 {
		return nil
	}
	bot, err := a.telegram()
	if err != nil {
		log.Printf("[ERROR] admin reports disabled: %v", err)
		return nil
	}
	return reporter.New(bot, a.cfg.TelegramAdminID)
}
