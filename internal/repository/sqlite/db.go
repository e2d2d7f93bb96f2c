// Package sqlite implements the domain repositories on an embedded SQLite
// database. It backs local development and the service tests.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/database"
)

//go:embed schema.sql
var schema string

// Timestamps are stored as fixed-width UTC text so that lexical order
// matches chronological order.
const (
	timestampLayout = "2006-01-02 15:04:05.000000000"
	dateLayout      = "2006-01-02"
)

// Migrate creates the tables when they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Open opens path, applies the schema and returns the handle.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := database.NewSQLiteDB(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func formatNullTimestamp(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatTimestamp(*t)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(timestampLayout, s, time.UTC)
}

func parseNullTimestamp(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTimestamp(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

var timeNow = time.Now
