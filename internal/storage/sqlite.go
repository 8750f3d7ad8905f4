// Package storage persists levels in SQLite so a dungeon can be reloaded
// with its surviving agents.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Garsondee/Dungeon-Sense/internal/game"
	"github.com/Garsondee/Dungeon-Sense/internal/logger"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

var (
	// ErrLevelNotFound is returned when no level is stored under a name.
	ErrLevelNotFound = errors.New("level not found")
	// ErrEmptyName is returned for a blank level name.
	ErrEmptyName = errors.New("empty level name")
)

const schema = `
CREATE TABLE IF NOT EXISTS levels (
	name      TEXT PRIMARY KEY,
	tile_size REAL NOT NULL,
	rows_text TEXT NOT NULL,
	saved_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS agents (
	level TEXT    NOT NULL,
	seq   INTEGER NOT NULL,
	kind  INTEGER NOT NULL,
	type  TEXT    NOT NULL DEFAULT '',
	x     REAL    NOT NULL,
	y     REAL    NOT NULL,
	hp    REAL    NOT NULL,
	PRIMARY KEY (level, seq)
);
`

// Store is a SQLite-backed level store. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	log *logrus.Entry
}

// Open opens (creating if needed) the database at path and applies the
// schema. ":memory:" gives a private in-memory store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One connection keeps ":memory:" a single database and serialises writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	s := &Store{db: db, log: logger.Component("storage")}
	s.log.WithField("path", path).Info("level store ready")
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveLevel stores st under name, replacing any level already there.
func (s *Store) SaveLevel(ctx context.Context, name string, st game.SavedState) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save level %q: %w", name, err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO levels (name, tile_size, rows_text, saved_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(name) DO UPDATE SET
		tile_size = excluded.tile_size,
		rows_text = excluded.rows_text,
		saved_at  = CURRENT_TIMESTAMP;
	`, name, st.TileSize, strings.Join(st.Rows, "\n"))
	if err != nil {
		return fmt.Errorf("save level %q: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM agents WHERE level = ?`, name); err != nil {
		return fmt.Errorf("save level %q: clear agents: %w", name, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO agents (level, seq, kind, type, x, y, hp) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("save level %q: %w", name, err)
	}
	defer stmt.Close()
	for i, a := range st.Agents {
		if _, err := stmt.ExecContext(ctx, name, i, int(a.Kind), a.Type, a.X, a.Y, a.HP); err != nil {
			return fmt.Errorf("save level %q: agent %d: %w", name, i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save level %q: commit: %w", name, err)
	}
	s.log.WithFields(logrus.Fields{"level": name, "agents": len(st.Agents)}).Debug("level saved")
	return nil
}

// LoadLevel returns the level stored under name, or ErrLevelNotFound.
// The result is handed to game.NewWorld, which validates the grid.
func (s *Store) LoadLevel(ctx context.Context, name string) (*game.SavedState, error) {
	var (
		st   game.SavedState
		text string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT tile_size, rows_text FROM levels WHERE name = ?`, name,
	).Scan(&st.TileSize, &text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load level %q: %w", name, ErrLevelNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load level %q: %w", name, err)
	}
	if text != "" {
		st.Rows = strings.Split(text, "\n")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, type, x, y, hp FROM agents WHERE level = ? ORDER BY seq`, name)
	if err != nil {
		return nil, fmt.Errorf("load level %q: agents: %w", name, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			a    game.AgentSnapshot
			kind int
		)
		if err := rows.Scan(&kind, &a.Type, &a.X, &a.Y, &a.HP); err != nil {
			return nil, fmt.Errorf("load level %q: scan agent: %w", name, err)
		}
		a.Kind = game.AgentKind(kind)
		st.Agents = append(st.Agents, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load level %q: %w", name, err)
	}
	return &st, nil
}

// ListLevels returns every stored level name in order.
func (s *Store) ListLevels(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM levels ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("list levels: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// DeleteLevel removes a level and its agents.
func (s *Store) DeleteLevel(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete level %q: %w", name, err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM levels WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete level %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete level %q: %w", name, ErrLevelNotFound)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM agents WHERE level = ?`, name); err != nil {
		return fmt.Errorf("delete level %q: agents: %w", name, err)
	}
	return tx.Commit()
}
