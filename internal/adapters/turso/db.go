package turso

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/tursodatabase/go-libsql"
)

// DB wraps the libsql connection used for the prediction history.
type DB struct {
	*sql.DB
}

// NewDB opens the database at url. Local "file:" URLs get their parent
// directory created; remote URLs carry the auth token as a query parameter.
func NewDB(ctx context.Context, url, authToken string) (*DB, error) {
	if url == "" {
		return nil, fmt.Errorf("database url is required")
	}

	connStr := url
	if path, ok := strings.CutPrefix(url, "file:"); ok {
		if dir := filepath.Dir(path); dir != "." && !strings.HasPrefix(path, ":memory:") {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	} else if authToken != "" {
		connStr = fmt.Sprintf("%s?authToken=%s", url, authToken)
	}

	db, err := sql.Open("libsql", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}
