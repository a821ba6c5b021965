// Package db opens the SQLite fetch history database and applies its schema.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
)

// Mode selects how a pool is tuned.
type Mode string

// Pool modes. Write pools hold a single connection and take the write lock
// at BEGIN; read pools allow several concurrent readers.
const (
	ModeWrite Mode = "write"
	ModeRead  Mode = "read"
)

const (
	busyTimeoutMs      = "5000"
	defaultReadMaxOpen = 4
	pingTimeout        = 5 * time.Second
)

// Open opens a pool on the SQLite file at path. maxOpen only applies to
// read pools; zero picks the default.
func Open(path string, mode Mode, maxOpen int) (*sql.DB, error) {
	if mode != ModeRead && mode != ModeWrite {
		return nil, fmt.Errorf("invalid SQLite mode %q: must be %q or %q", mode, ModeRead, ModeWrite)
	}

	conn, err := sql.Open("sqlite3", buildDSN(path, mode))
	if err != nil {
		return nil, fmt.Errorf("open sqlite (%s): %w", mode, err)
	}

	if mode == ModeWrite {
		maxOpen = 1
	} else if maxOpen <= 0 {
		maxOpen = defaultReadMaxOpen
	}
	conn.SetMaxOpenConns(maxOpen)
	conn.SetMaxIdleConns(maxOpen)
	conn.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping sqlite (%s): %w", mode, err)
	}
	return conn, nil
}

// Pool pairs a single-connection write pool with a read pool on one file.
type Pool struct {
	Write *sql.DB
	Read  *sql.DB
}

// OpenPool opens both pools for path.
func OpenPool(path string, readMaxOpen int) (*Pool, error) {
	w, err := Open(path, ModeWrite, 0)
	if err != nil {
		return nil, err
	}
	r, err := Open(path, ModeRead, readMaxOpen)
	if err != nil {
		_ = w.Close()
		return nil, err
	}
	return &Pool{Write: w, Read: r}, nil
}

// Close closes both pools.
func (p *Pool) Close() error {
	return errors.Join(p.Read.Close(), p.Write.Close())
}

func buildDSN(path string, mode Mode) string {
	params := url.Values{}
	params.Set("_journal_mode", "WAL")
	params.Set("_busy_timeout", busyTimeoutMs)
	params.Set("_synchronous", "NORMAL")
	if mode == ModeWrite {
		params.Set("_txlock", "immediate")
	}
	return path + "?" + params.Encode()
}
