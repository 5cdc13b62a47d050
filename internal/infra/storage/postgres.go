package storage

import (
	"context"
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

// PostgresMedium keeps blobs in a single key-value table. It exists for
// deployments that want the console state to survive the host, with the same
// best-effort contract as the other mediums.
type PostgresMedium struct {
	db *sql.DB
}

func NewPostgresMedium(connString string) (*PostgresMedium, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS console_blobs (
			key        TEXT PRIMARY KEY,
			value      BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return nil, err
	}

	return &PostgresMedium{db: db}, nil
}

func (p *PostgresMedium) Get(key string) ([]byte, bool) {
	var value []byte
	err := p.db.QueryRow(`SELECT value FROM console_blobs WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("storage: postgres read %s failed: %v", key, err)
		}
		return nil, false
	}
	return value, true
}

func (p *PostgresMedium) Set(key string, value []byte) error {
	_, err := p.db.Exec(`
		INSERT INTO console_blobs (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, key, value)
	return err
}

func (p *PostgresMedium) Remove(key string) error {
	_, err := p.db.Exec(`DELETE FROM console_blobs WHERE key = $1`, key)
	return err
}

func (p *PostgresMedium) Clear() error {
	_, err := p.db.Exec(`DELETE FROM console_blobs`)
	return err
}

func (p *PostgresMedium) Exists(key string) bool {
	var exists bool
	err := p.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM console_blobs WHERE key = $1)`, key).Scan(&exists)
	if err != nil {
		log.Printf("storage: postgres exists %s failed: %v", key, err)
		return false
	}
	return exists
}

func (p *PostgresMedium) Ping() error {
	return p.db.Ping()
}

func (p *PostgresMedium) Close() error {
	return p.db.Close()
}
