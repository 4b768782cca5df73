// Package store persists practice settings in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/pbardea/monkeydo/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SettingsKey is the row that holds the practice configuration.
const SettingsKey = "monkeydo-settings"

// ErrNotFound is returned when no settings have been saved.
var ErrNotFound = errors.New("settings not found")

// Store wraps SQLite access for persisted settings.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	store := &Store{db: db, log: log}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, fmt.Errorf("failed to migrate db: %w", err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveConfig stores cfg as the persisted practice settings.
func (s *Store) SaveConfig(ctx context.Context, cfg model.Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		SettingsKey, string(data), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.log.Debug("settings saved", zap.ByteString("value", data))
	return nil
}

// LoadConfig returns the persisted settings as overrides. Fields missing
// from the stored value stay unset so callers merge them over defaults.
func (s *Store) LoadConfig(ctx context.Context) (model.PartialConfig, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, SettingsKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PartialConfig{}, ErrNotFound
	}
	if err != nil {
		return model.PartialConfig{}, fmt.Errorf("failed to query settings: %w", err)
	}
	var partial model.PartialConfig
	if err := json.Unmarshal([]byte(raw), &partial); err != nil {
		return model.PartialConfig{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return partial, nil
}

// DeleteConfig removes the persisted settings. Deleting absent settings is
// not an error.
func (s *Store) DeleteConfig(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, SettingsKey); err != nil {
		return fmt.Errorf("failed to delete settings: %w", err)
	}
	return nil
}
