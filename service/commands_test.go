package service

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"postboard/app/models"
	"postboard/app/repositories"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCommand executes HandleCommand with input on stdin and returns the exit code and stdout.
func runCommand(t *testing.T, input string, args ...string) (int, string) {
	t.Helper()
	var out string
	var code int
	mockStdin(input, func() {
		out = captureOutput(func() {
			code = HandleCommand(args)
		})
	})
	return code, out
}

func captureOutput(f func()) string {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		io.Copy(&buf, r)
		close(done)
	}()

	f()

	// Restore stdout and close pipe
	w.Close()
	os.Stdout = oldStdout
	<-done
	return buf.String()
}

func mockStdin(input string, f func()) {
	oldStdin := os.Stdin
	r, w, _ := os.Pipe()
	os.Stdin = r

	// Write input in a goroutine to avoid blocking
	go func() {
		w.Write([]byte(input))
		w.Close()
	}()

	f()

	os.Stdin = oldStdin
	r.Close()
}

// setupBadgerEnv points the configuration at a temporary badger store.
func setupBadgerEnv(t *testing.T) string {
	dir := t.TempDir()
	t.Setenv("ENV", "dev")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("STORE_DRIVER", "badger")
	t.Setenv("BADGER_PATH", filepath.Join(dir, "badger"))
	t.Setenv("BACKUP_DIR", filepath.Join(dir, "backups"))
	return dir
}

func withStore(t *testing.T, path string, fn func(s repositories.Store)) {
	t.Helper()
	s, err := repositories.NewBadgerStore(path, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()
	fn(s)
}

func seed(t *testing.T, s repositories.Store) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	u := &models.User{Username: "alice", PasswordHash: "hash", CreatedAt: now}
	require.NoError(t, s.Users().Create(ctx, u))
	p := &models.Post{Title: "Backed up", Content: "body", AuthorID: u.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Posts().Create(ctx, p))
}

func countPosts(t *testing.T, s repositories.Store) int {
	n, err := s.Posts().Count(context.Background(), "")
	require.NoError(t, err)
	return n
}

func TestHandleCommand(t *testing.T) {
	setupBadgerEnv(t)

	tests := []struct {
		name           string
		args           []string
		expectedOutput string
		expectedExit   int
	}{
		{
			name:           "no arguments",
			args:           []string{},
			expectedOutput: "Commands:",
			expectedExit:   1,
		},
		{
			name:           "help command",
			args:           []string{"help"},
			expectedOutput: "Commands:",
			expectedExit:   0,
		},
		{
			name:           "unknown command",
			args:           []string{"unknown"},
			expectedOutput: "Unknown command: unknown",
			expectedExit:   1,
		},
		{
			name:           "restore without file",
			args:           []string{"restore"},
			expectedOutput: "Error: backup file path required for restore",
			expectedExit:   1,
		},
		{
			name:           "restore missing file",
			args:           []string{"restore", "/does/not/exist", "--yes"},
			expectedOutput: "backup file does not exist",
			expectedExit:   1,
		},
		{
			name:           "migrate",
			args:           []string{"migrate"},
			expectedOutput: "Schema of the badger store is up to date",
			expectedExit:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, output := runCommand(t, "", tt.args...)
			assert.Contains(t, output, tt.expectedOutput)
			assert.Equal(t, tt.expectedExit, code)
		})
	}
}

func TestInvalidConfiguration(t *testing.T) {
	setupBadgerEnv(t)
	t.Setenv("STORE_DRIVER", "cassandra")

	code, output := runCommand(t, "", "migrate")
	assert.Equal(t, 1, code)
	assert.Contains(t, output, "invalid configuration")
}

func TestBackupCleanRestore(t *testing.T) {
	dir := setupBadgerEnv(t)
	dbPath := filepath.Join(dir, "badger")
	withStore(t, dbPath, func(s repositories.Store) { seed(t, s) })

	backupFile := filepath.Join(dir, "backups", "snapshot.db")
	code, output := runCommand(t, "", "backup", backupFile)
	require.Equal(t, 0, code, output)
	assert.Contains(t, output, "Database backed up successfully to "+backupFile)
	fi, err := os.Stat(backupFile)
	require.NoError(t, err)
	assert.NotZero(t, fi.Size())

	code, output = runCommand(t, "", "clean", "--yes")
	require.Equal(t, 0, code, output)
	assert.Contains(t, output, "Database cleaned successfully")
	withStore(t, dbPath, func(s repositories.Store) { assert.Zero(t, countPosts(t, s)) })

	code, output = runCommand(t, "y\n", "restore", backupFile)
	require.Equal(t, 0, code, output)
	assert.Contains(t, output, "Database restored successfully")
	withStore(t, dbPath, func(s repositories.Store) {
		assert.Equal(t, 1, countPosts(t, s))
		u, err := s.Users().GetByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username)
	})
}

func TestBackupDefaultsToBackupDir(t *testing.T) {
	dir := setupBadgerEnv(t)

	code, output := runCommand(t, "", "backup")
	require.Equal(t, 0, code, output)

	entries, err := os.ReadDir(filepath.Join(dir, "backups"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "backup_"))
}

func TestDestructiveCommandsAskFirst(t *testing.T) {
	dir := setupBadgerEnv(t)
	dbPath := filepath.Join(dir, "badger")
	withStore(t, dbPath, func(s repositories.Store) { seed(t, s) })

	code, output := runCommand(t, "n\n", "clean")
	assert.Equal(t, 0, code)
	assert.Contains(t, output, "Operation cancelled")

	backupFile := filepath.Join(dir, "snapshot.db")
	require.NoError(t, os.WriteFile(backupFile, []byte("not empty"), 0644))
	code, output = runCommand(t, "\n", "restore", backupFile)
	assert.Equal(t, 0, code)
	assert.Contains(t, output, "Operation cancelled")

	withStore(t, dbPath, func(s repositories.Store) { assert.Equal(t, 1, countPosts(t, s)) })
}

func TestBackupRequiresBadger(t *testing.T) {
	dir := setupBadgerEnv(t)
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", filepath.Join(dir, "postboard.db"))

	code, output := runCommand(t, "", "backup")
	assert.Equal(t, 1, code)
	assert.Contains(t, output, "only supported for the badger store")

	code, output = runCommand(t, "", "migrate")
	assert.Equal(t, 0, code, output)
	assert.Contains(t, output, "Schema of the sqlite store is up to date")

	code, output = runCommand(t, "", "clean", "--yes")
	assert.Equal(t, 0, code, output)
}
