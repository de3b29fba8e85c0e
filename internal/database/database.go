// Package database wraps the database implementation used for Stockwarp.
package database

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type Conn struct {
	pool *pgxpool.Pool
}

type Row interface {
	Scan(dest ...any) error
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close()
	Err() error
}

var ErrNoRows = pgx.ErrNoRows

// URL builds a Postgres connection URL from the project environment variables.
func URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("DB_USERNAME"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
	)
}

// Connect connects to the Postgres database with the project environment variables.
func Connect(ctx context.Context) (*Conn, error) {
	pool, err := pgxpool.Connect(ctx, URL())

	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, err
	}

	return &Conn{pool: pool}, nil
}

// Close closes a database connection.
func (conn *Conn) Close() {
	conn.pool.Close()
}

// Exec executes a database query.
func (conn *Conn) Exec(ctx context.Context, sql string, arguments ...any) error {
	_, err := conn.pool.Exec(ctx, sql, arguments...)

	return err
}

// Query executes a database query.
func (conn *Conn) Query(ctx context.Context, sql string, arguments ...any) (Rows, error) {
	return conn.pool.Query(ctx, sql, arguments...)
}

// QueryRow executes a database query returning Row data.
func (conn *Conn) QueryRow(ctx context.Context, sql string, arguments ...any) Row {
	return conn.pool.QueryRow(ctx, sql, arguments...)
}

// Queryable defines an interface for a connection or transaction.
type Queryable interface {
	Exec(ctx context.Context, sql string, arguments ...any) error
	Query(ctx context.Context, sql string, arguments ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, arguments ...any) Row
}

// Tx wraps a database transaction as a Queryable.
type Tx struct {
	tx pgx.Tx
}

func (tx *Tx) Exec(ctx context.Context, sql string, arguments ...any) error {
	_, err := tx.tx.Exec(ctx, sql, arguments...)

	return err
}

func (tx *Tx) Query(ctx context.Context, sql string, arguments ...any) (Rows, error) {
	return tx.tx.Query(ctx, sql, arguments...)
}

func (tx *Tx) QueryRow(ctx context.Context, sql string, arguments ...any) Row {
	return tx.tx.QueryRow(ctx, sql, arguments...)
}

// WithTransaction runs a function inside a database transaction.
//
// The transaction is committed if the function returns nil, and rolled back
// otherwise, so either every statement applies or none of them do.
func (conn *Conn) WithTransaction(ctx context.Context, run func(tx Queryable) error) error {
	tx, err := conn.pool.Begin(ctx)

	if err != nil {
		return err
	}

	if err := run(&Tx{tx: tx}); err != nil {
		_ = tx.Rollback(ctx)

		return err
	}

	return tx.Commit(ctx)
}
