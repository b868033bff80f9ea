/*
 * Copyright (c) 2025 by Jules Collenne.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package history persists the recently used source documents and export
// destinations in a small per-user SQLite database.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	applog "github.com/JulesCollenne/pdfkiwi/internal/log"
	"github.com/JulesCollenne/pdfkiwi/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// FileName is the database file under the app data dir.
	FileName = "history.sqlite"

	// schemaVersion tracks the local SQLite schema. Bump on breaking schema
	// changes and add migrations.
	schemaVersion = 1

	stampFormat = "2006-01-02T15:04:05.000000000Z07:00"
)

// Kind distinguishes what an entry was used as.
type Kind string

const (
	KindSource Kind = "source"
	KindExport Kind = "export"
)

// Entry is one remembered path.
type Entry struct {
	Path     string
	Kind     Kind
	LastUsed time.Time
	Uses     int
}

// Store wraps the recents database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the history database under dataDir, enables WAL mode
// and ensures the schema exists.
func Open(dataDir string) (*Store, error) {
	l := applog.WithOperation(applog.WithComponent("history"), "open").With(
		slog.String("dir", dataDir),
	)
	if dataDir == "" {
		return nil, errors.New("data dir is required")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		l.Error("create data dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	path := filepath.Join(dataDir, FileName)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("history ready", slog.String("path", path))
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func ensureSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS recents (
			path      TEXT NOT NULL,
			kind      TEXT NOT NULL,
			last_used TEXT NOT NULL,
			uses      INTEGER NOT NULL DEFAULT 1,
			PRIMARY KEY (path, kind)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_recents_last_used ON recents(last_used DESC);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	seed := `INSERT INTO meta (key, value) VALUES ('schema', ?), ('app', ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value`
	if _, err := db.ExecContext(ctx, seed, fmt.Sprintf("%d", schemaVersion), version.String()); err != nil {
		return fmt.Errorf("seed meta: %w", err)
	}
	return nil
}

// Touch records a use of path, creating the entry or bumping its use count.
func (s *Store) Touch(ctx context.Context, path string, kind Kind) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	// Fixed-width nanosecond stamps so lexical order equals time order even
	// for touches within one second.
	now := time.Now().UTC().Format(stampFormat)
	_, err = s.db.ExecContext(ctx, `INSERT INTO recents (path, kind, last_used, uses)
		VALUES (?, ?, ?, 1)
		ON CONFLICT(path, kind) DO UPDATE SET last_used=excluded.last_used, uses=uses+1`,
		abs, string(kind), now)
	if err != nil {
		return fmt.Errorf("touch recent: %w", err)
	}
	return nil
}

// Recent returns up to n entries of the given kind, most recent first.
// kind "" returns entries of every kind.
func (s *Store) Recent(ctx context.Context, kind Kind, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	q := `SELECT path, kind, last_used, uses FROM recents`
	args := []any{}
	if kind != "" {
		q += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	q += ` ORDER BY last_used DESC LIMIT ?`
	args = append(args, n)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query recents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var e Entry
		var k, used string
		if err := rows.Scan(&e.Path, &k, &used, &e.Uses); err != nil {
			return nil, fmt.Errorf("scan recent: %w", err)
		}
		e.Kind = Kind(k)
		if t, perr := time.Parse(time.RFC3339Nano, used); perr == nil {
			e.LastUsed = t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Forget removes one entry.
func (s *Store) Forget(ctx context.Context, path string, kind Kind) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM recents WHERE path = ? AND kind = ?`, abs, string(kind)); err != nil {
		return fmt.Errorf("forget recent: %w", err)
	}
	return nil
}

// Prune keeps only the max most recently used entries.
func (s *Store) Prune(ctx context.Context, max int) error {
	if max < 0 {
		max = 0
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM recents WHERE (path, kind) NOT IN (
		SELECT path, kind FROM recents ORDER BY last_used DESC, uses DESC LIMIT ?)`, max)
	if err != nil {
		return fmt.Errorf("prune recents: %w", err)
	}
	return nil
}
