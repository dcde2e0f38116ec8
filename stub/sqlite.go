package stub

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists sessions and image bytes in a SQLite database so a
// stub restart doesn't lose server-side context.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists. Use ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id   TEXT PRIMARY KEY,
		data TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS images (
		id   TEXT PRIMARY KEY,
		mime TEXT NOT NULL,
		data BLOB NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*Session, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM sessions WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *SQLiteStore) PutSession(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, data) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data`,
		sess.ID, string(data))
	if err != nil {
		return fmt.Errorf("store session %s: %w", sess.ID, err)
	}
	return nil
}

func (s *SQLiteStore) PutImage(ctx context.Context, id, mime string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO images (id, mime, data) VALUES (?, ?, ?)`,
		id, mime, data)
	if err != nil {
		return fmt.Errorf("store image %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) GetImage(ctx context.Context, id string) ([]byte, string, error) {
	var (
		mime string
		data []byte
	)
	err := s.db.QueryRowContext(ctx, `SELECT mime, data FROM images WHERE id = ?`, id).Scan(&mime, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrNotFound{ID: id}
	}
	if err != nil {
		return nil, "", fmt.Errorf("query image: %w", err)
	}
	return data, mime, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
