// Package storage persists session keys and workflow snapshots in SQLite.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by GetSnapshot for an unknown id.
var ErrNotFound = errors.New("not found")

type Storage struct {
	db *sql.DB
}

// Snapshot is a saved copy of a workflow. Nodes holds the JSON document.
type Snapshot struct {
	ID        int64
	Name      string
	NodeCount int
	Nodes     []byte
	SavedBy   string
	CreatedAt time.Time
}

func New(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		node_count INTEGER NOT NULL,
		nodes TEXT NOT NULL,
		saved_by TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Get returns the value stored under key. ok is false when the key is absent.
func (s *Storage) Get(key string) (value string, ok bool, err error) {
	err = s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Storage) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Storage) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

func (s *Storage) CreateSnapshot(snap *Snapshot) (int64, error) {
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}
	result, err := s.db.Exec(
		`INSERT INTO snapshots (name, node_count, nodes, saved_by, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		snap.Name, snap.NodeCount, string(snap.Nodes), snap.SavedBy, snap.CreatedAt.UnixNano(),
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *Storage) GetSnapshot(id int64) (*Snapshot, error) {
	row := s.db.QueryRow(
		`SELECT id, name, node_count, nodes, saved_by, created_at
		 FROM snapshots WHERE id = ?`, id,
	)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %d: %w", id, ErrNotFound)
	}
	return snap, err
}

// ListSnapshots returns the most recent snapshots first.
func (s *Storage) ListSnapshots(limit int) ([]*Snapshot, error) {
	rows, err := s.db.Query(
		`SELECT id, name, node_count, nodes, saved_by, created_at
		 FROM snapshots ORDER BY created_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []*Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*Snapshot, error) {
	var snap Snapshot
	var nodes string
	var createdAt int64
	if err := row.Scan(&snap.ID, &snap.Name, &snap.NodeCount, &nodes, &snap.SavedBy, &createdAt); err != nil {
		return nil, err
	}
	snap.Nodes = []byte(nodes)
	snap.CreatedAt = time.Unix(0, createdAt)
	return &snap, nil
}
