// Package storage keeps bookmarked articles and user preferences in a local relational database.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const DatabaseName = "news_db"

func init() {
	// modernc's driver name is not in sqlx's bindvar table.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Error wraps every failure coming from the database.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func IsStorageError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS articles (
		url          TEXT PRIMARY KEY,
		author       TEXT NULL,
		content      TEXT NOT NULL DEFAULT '',
		description  TEXT NOT NULL DEFAULT '',
		published_at TEXT NOT NULL DEFAULT '',
		source       TEXT NOT NULL DEFAULT '',
		title        TEXT NOT NULL DEFAULT '',
		url_to_image TEXT NOT NULL DEFAULT '',
		saved_at     BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_saved_at ON articles(saved_at)`,
	`CREATE TABLE IF NOT EXISTS preferences (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

// Open connects to driver ("sqlite" or "postgres") and creates the schema.
// For sqlite the dsn is a file path; its directory is created if missing.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	if driver == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, &Error{Op: "create database dir", Err: err}
		}
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, &Error{Op: "connect", Err: err}
	}

	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return &Error{Op: "migrate", Err: err}
		}
	}
	return nil
}
