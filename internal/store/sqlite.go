package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"
)

func init() {
	// The modernc driver registers as "sqlite", which sqlx does not know.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// locationRow mirrors one row of the locations table.
type locationRow struct {
	UserID   int64  `db:"user_id"`
	Position int    `db:"position"`
	Name     string `db:"name"`
}

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sqlx.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// SQLite is a single-writer engine; keep the pool at one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

func applyPragmas(ctx context.Context, db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// LoadLocations reads every user's location list, ordered by insertion.
func (r *SQLiteRepo) LoadLocations(ctx context.Context) (map[int64][]string, error) {
	var rows []locationRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT user_id, position, name
		FROM locations
		ORDER BY user_id, position`)
	if err != nil {
		return nil, err
	}

	out := make(map[int64][]string)
	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], row.Name)
	}
	return out, nil
}

// SaveUserLocations rewrites one user's list in a single transaction so the
// stored list can never be observed half-written.
func (r *SQLiteRepo) SaveUserLocations(ctx context.Context, userID int64, locations []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM locations WHERE user_id = ?`, userID); err != nil {
		_ = tx.Rollback()
		return err
	}
	for i, name := range locations {
		row := locationRow{UserID: userID, Position: i, Name: name}
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO locations (user_id, position, name)
			VALUES (:user_id, :position, :name)`, row)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}
