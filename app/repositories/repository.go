package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Store drivers accepted by Open.
const (
	DriverBadger   = "badger"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and locates a backend.
type Options struct {
	Driver string
	// BadgerPath is the Badger directory; empty runs in memory.
	BadgerPath string
	// DSN is the SQLite file or PostgreSQL connection string.
	DSN    string
	Logger zerolog.Logger
}

// Open returns the store for opts.Driver, running schema migrations for SQL backends.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverBadger, "":
		return NewBadgerStore(opts.BadgerPath, opts.Logger)
	case DriverSQLite, DriverPostgres:
		return OpenSQL(ctx, opts.Driver, opts.DSN, opts.Logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
