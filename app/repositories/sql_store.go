package repositories

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed migrations
var migrations embed.FS

// DefaultSQLiteDSN is used when the sqlite driver is selected without a DSN.
const DefaultSQLiteDSN = "./postboard.db"

// SQLStore implements Store on SQLite or PostgreSQL through database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect string
	log     zerolog.Logger

	posts    *SQLPostRepository
	comments *SQLCommentRepository
	likes    *SQLLikeRepository
	users    *SQLUserRepository
}

// OpenSQL connects to the database and brings its schema up to date.
func OpenSQL(ctx context.Context, dialect, dsn string, logger zerolog.Logger) (*SQLStore, error) {
	db, err := openDB(dialect, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", dialect, err)
	}

	s := newSQLStore(db, dialect, logger)
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func openDB(dialect, dsn string) (*sql.DB, error) {
	switch dialect {
	case DriverSQLite:
		if dsn == "" {
			dsn = DefaultSQLiteDSN
		}
		if err := ensureDir(dsn); err != nil {
			return nil, err
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, err
		}
		// One writer at a time; SQLite locks the whole file anyway.
		db.SetMaxOpenConns(1)
		return db, nil
	case DriverPostgres:
		cfg, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse postgres dsn: %w", err)
		}
		cfg.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
		cfg.StatementCacheCapacity = 256
		return stdlib.OpenDB(*cfg), nil
	default:
		return nil, fmt.Errorf("unknown sql dialect %q", dialect)
	}
}

// ensureDir creates the parent directory of a plain SQLite file path.
func ensureDir(dsn string) error {
	path, _, _ := strings.Cut(dsn, "?")
	if path == "" || path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	return nil
}

func newSQLStore(db *sql.DB, dialect string, logger zerolog.Logger) *SQLStore {
	s := &SQLStore{db: db, dialect: dialect, log: logger}
	s.posts = &SQLPostRepository{store: s}
	s.comments = &SQLCommentRepository{store: s}
	s.likes = &SQLLikeRepository{store: s}
	s.users = &SQLUserRepository{store: s}
	return s
}

func (s *SQLStore) Posts() PostRepository       { return s.posts }
func (s *SQLStore) Comments() CommentRepository { return s.comments }
func (s *SQLStore) Likes() LikeRepository       { return s.likes }
func (s *SQLStore) Users() UserRepository       { return s.users }

// DB exposes the underlying connection pool.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Migrate applies every pending schema migration.
func (s *SQLStore) Migrate() error {
	src, err := iofs.New(migrations, "migrations/"+s.dialect)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	var driver database.Driver
	switch s.dialect {
	case DriverSQLite:
		driver, err = migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	case DriverPostgres:
		driver, err = migratepgx.WithInstance(s.db, &migratepgx.Config{})
	}
	if err != nil {
		return fmt.Errorf("failed to prepare migrations: %w", err)
	}

	// The migrate instance is not closed: closing it would close s.db.
	m, err := migrate.NewWithInstance("iofs", src, s.dialect, driver)
	if err != nil {
		return fmt.Errorf("failed to prepare migrations: %w", err)
	}
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		s.log.Debug().Str("dialect", s.dialect).Msg("database schema already at latest version")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	version, _, _ := m.Version()
	s.log.Info().Str("dialect", s.dialect).Uint("version", version).Msg("database schema migrated")
	return nil
}

// Clear deletes every row, children first.
func (s *SQLStore) Clear(ctx context.Context) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"post_likes", "comments", "posts", "users"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
}

// Close closes the connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// inTx runs fn in a transaction, committing when it returns nil.
func (s *SQLStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// lockPost is appended to a post lookup inside a transaction to serialize
// writers on the same post. SQLite already serializes writers.
func (s *SQLStore) lockPost() string {
	if s.dialect == DriverPostgres {
		return " FOR UPDATE"
	}
	return ""
}

// isUniqueViolation reports whether err is a unique or primary key conflict.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// likePattern builds a LIKE pattern matching s anywhere, escaping wildcards with '\'.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

// pageClause renders LIMIT/OFFSET with placeholders starting at $n.
func pageClause(limit, offset, n int) (string, []interface{}) {
	if limit <= 0 && offset <= 0 {
		return "", nil
	}
	if limit <= 0 {
		limit = 1<<31 - 1
	}
	if offset < 0 {
		offset = 0
	}
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n, n+1), []interface{}{limit, offset}
}

// timestamp scans the TIMESTAMP columns of either dialect into a UTC time.
type timestamp struct {
	t *time.Time
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

func (ts timestamp) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*ts.t = v.UTC()
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	case nil:
		*ts.t = time.Time{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into a timestamp", src)
}

func (ts timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*ts.t = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}
