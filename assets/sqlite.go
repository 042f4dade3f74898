package assets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore reads uploaded images from the web app's database table
// image(title TEXT PRIMARY KEY, extension TEXT, image BLOB).
// It has no flags or static assets.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens the database at path read-only.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("assets: opening %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("assets: opening %s: %w", path, err)
	}
	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStore wraps an open database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Upload returns the image row titled id. A missing row yields a
// *FetchError wrapping ErrNotFound.
func (s *SQLiteStore) Upload(ctx context.Context, id string) (Asset, error) {
	var ext string
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT extension, image FROM image WHERE title = ?`, id).Scan(&ext, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return Asset{}, &FetchError{Ref: "upload " + id, Err: ErrNotFound}
	}
	if err != nil {
		return Asset{}, &FetchError{Ref: "upload " + id, Err: err}
	}
	mime, ok := mimeByExt["."+strings.ToLower(strings.TrimPrefix(ext, "."))]
	if !ok {
		mime = detectMIME("", data)
	}
	return Asset{Data: data, MIMEType: mime}, nil
}

// Flag always fails with ErrNotFound; flags are not stored in the database.
func (s *SQLiteStore) Flag(ctx context.Context, code string) (Asset, error) {
	return Asset{}, &FetchError{Ref: "flag " + code, Err: ErrNotFound}
}

// Static always fails with ErrNotFound.
func (s *SQLiteStore) Static(ctx context.Context, path string) (Asset, error) {
	return Asset{}, &FetchError{Ref: "static " + path, Err: ErrNotFound}
}
