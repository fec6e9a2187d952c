package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteGateway persists collections in a SQLite database, one row per
// (entity, owner) key.
type SQLiteGateway struct {
	db *sql.DB
}

// NewSQLiteGateway opens or creates the database at path and ensures schema.
func NewSQLiteGateway(path string) (*SQLiteGateway, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	schema := `CREATE TABLE IF NOT EXISTS collections (
        entity TEXT,
        owner_id TEXT,
        data BLOB,
        PRIMARY KEY(entity, owner_id)
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &SQLiteGateway{db: db}, nil
}

func (g *SQLiteGateway) Save(ctx context.Context, entity, ownerID string, data []byte) error {
	_, err := g.db.ExecContext(ctx,
		`INSERT INTO collections (entity, owner_id, data) VALUES (?, ?, ?)
        ON CONFLICT(entity, owner_id) DO UPDATE SET data = excluded.data`,
		entity, ownerID, data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (g *SQLiteGateway) Load(ctx context.Context, entity, ownerID string) ([]byte, error) {
	var data []byte
	err := g.db.QueryRowContext(ctx,
		`SELECT data FROM collections WHERE entity = ? AND owner_id = ?`,
		entity, ownerID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return data, nil
}

func (g *SQLiteGateway) Remove(ctx context.Context, entity, ownerID string) error {
	_, err := g.db.ExecContext(ctx,
		`DELETE FROM collections WHERE entity = ? AND owner_id = ?`, entity, ownerID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Close releases the database handle.
func (g *SQLiteGateway) Close() error { return g.db.Close() }
