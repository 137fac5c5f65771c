package repositories

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// BadgerStore implements Store on an embedded Badger database.
type BadgerStore struct {
	db *badger.DB
	// writes are serialized so read-modify-write sequences such as like
	// toggles never hit transaction conflicts.
	mutex sync.Mutex

	posts    *BadgerPostRepository
	comments *BadgerCommentRepository
	likes    *BadgerLikeRepository
	users    *BadgerUserRepository
}

// NewBadgerStore opens a Badger database at path, or in memory when path is empty.
func NewBadgerStore(path string, logger zerolog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(badgerLogger{logger.With().Str("component", "badger").Logger()})
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return newBadgerStore(db), nil
}

func newBadgerStore(db *badger.DB) *BadgerStore {
	s := &BadgerStore{db: db}
	s.posts = &BadgerPostRepository{store: s}
	s.comments = &BadgerCommentRepository{store: s}
	s.likes = &BadgerLikeRepository{store: s}
	s.users = &BadgerUserRepository{store: s}
	return s
}

func (s *BadgerStore) Posts() PostRepository       { return s.posts }
func (s *BadgerStore) Comments() CommentRepository { return s.comments }
func (s *BadgerStore) Likes() LikeRepository       { return s.likes }
func (s *BadgerStore) Users() UserRepository       { return s.users }

// DB exposes the underlying database.
func (s *BadgerStore) DB() *badger.DB {
	return s.db
}

// Clear drops every key.
func (s *BadgerStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.DropAll()
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Backup writes a full backup of the database to w.
func (s *BadgerStore) Backup(w io.Writer) error {
	if _, err := s.db.Backup(w, 0); err != nil {
		return fmt.Errorf("failed to backup database: %w", err)
	}
	return nil
}

// Restore loads a backup produced by Backup.
func (s *BadgerStore) Restore(r io.Reader) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err := s.db.Load(r, 4); err != nil {
		return fmt.Errorf("failed to restore database: %w", err)
	}
	return nil
}

func (s *BadgerStore) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.Update(fn)
}

func (s *BadgerStore) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(fn)
}

// badgerLogger routes Badger's internal logging through zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Trace().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
