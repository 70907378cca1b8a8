// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"college-advisor/internal/common/config"

	_ "github.com/lib/pq"
)

const idleTimeout = time.Minute

// PostgresClient holds the pool the seat allocation tables are read from and imported into.
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens a pool; it does not contact the server until Ping or the first query.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	// Seat tables are read at startup and on import; nothing else holds connections.
	db.SetConnMaxIdleTime(idleTimeout)

	return &PostgresClient{DB: db}, nil
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
