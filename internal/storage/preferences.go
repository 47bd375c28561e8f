package storage

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/jmoiron/sqlx"
)

// Preferences is a small key-value store for user settings.
type Preferences struct {
	db *sqlx.DB
}

func NewPreferences(db *sqlx.DB) *Preferences {
	return &Preferences{db: db}
}

// Bool returns false for keys that were never set.
func (p *Preferences) Bool(ctx context.Context, key string) (bool, error) {
	var value string
	err := p.db.GetContext(ctx, &value,
		p.db.Rebind(`SELECT value FROM preferences WHERE key = ?`),
		key,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, &Error{Op: "read preference " + key, Err: err}
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, &Error{Op: "parse preference " + key, Err: err}
	}
	return b, nil
}

func (p *Preferences) SetBool(ctx context.Context, key string, value bool) error {
	if _, err := p.db.ExecContext(ctx,
		p.db.Rebind(`INSERT INTO preferences (key, value) VALUES (?, ?)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value`),
		key, strconv.FormatBool(value),
	); err != nil {
		return &Error{Op: "write preference " + key, Err: err}
	}
	return nil
}
