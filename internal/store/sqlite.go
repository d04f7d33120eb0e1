package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Gaurav-Gosain/tilecols/internal/layout"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS layout_states (
	session    TEXT NOT NULL,
	strategy   TEXT NOT NULL,
	state      TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (session, strategy)
);
`

// SQLiteStore keeps state as JSON rows in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, session, strategy string, state layout.State) error {
	if err := validateKey(session, strategy); err != nil {
		return err
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO layout_states (session, strategy, state, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (session, strategy) DO UPDATE SET
			state = excluded.state,
			updated_at = excluded.updated_at`,
		session, strategy, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, session, strategy string) (layout.State, error) {
	if err := validateKey(session, strategy); err != nil {
		return layout.State{}, err
	}

	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM layout_states WHERE session = ? AND strategy = ?`,
		session, strategy).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return layout.State{}, ErrStateNotFound
	}
	if err != nil {
		return layout.State{}, fmt.Errorf("load state: %w", err)
	}

	var state layout.State
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return layout.State{}, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	return state, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, session, strategy string) error {
	if err := validateKey(session, strategy); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM layout_states WHERE session = ? AND strategy = ?`,
		session, strategy); err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, session string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT strategy FROM layout_states WHERE session = ? ORDER BY strategy`, session)
	if err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}
	defer func() { _ = rows.Close() }()

	strategies := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list states: %w", err)
		}
		strategies = append(strategies, name)
	}
	return strategies, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
