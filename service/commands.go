package service

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
)

// HandleCommand runs a store or server subcommand and returns an exit code.
func HandleCommand(args []string) int {
	if len(args) < 1 {
		printCommandHelp()
		return 1
	}

	cmd, rest := args[0], args[1:]
	var run func(context.Context, *environment, []string) error
	switch cmd {
	case "serve":
		run = serveCmd
	case "migrate":
		run = migrate
	case "backup":
		run = backup
	case "restore":
		if len(rest) < 1 {
			fmt.Println("Error: backup file path required for restore")
			return 1
		}
		run = restore
	case "clean":
		run = clean
	case "help":
		printCommandHelp()
		return 0
	default:
		fmt.Printf("Unknown command: %s\n\n", cmd)
		printCommandHelp()
		return 1
	}

	env, err := loadEnvironment()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	defer env.closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, env, rest); err != nil {
		env.log.Error().Err(err).Str("command", cmd).Msg("command failed")
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	return 0
}

// printCommandHelp prints help for the store and server subcommands.
func printCommandHelp() {
	helpText := `Commands:
  serve                   Run the API server
  migrate                 Open the configured store and apply schema migrations
  backup [file]           Write a backup of the badger store
  restore <file> [--yes]  Replace the badger store contents with a backup
  clean [--yes]           Delete every post, comment, like and user
  help                    Display this help message
`
	fmt.Println(helpText)
}

func serveCmd(ctx context.Context, env *environment, _ []string) error {
	store, err := env.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	return RunAppServer(ctx, env.cfg, env.log, store)
}

// migrate opens the store, which applies pending migrations for SQL backends.
func migrate(ctx context.Context, env *environment, _ []string) error {
	store, err := env.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	fmt.Printf("Schema of the %s store is up to date\n", env.cfg.StoreDriver)
	return nil
}

// backup writes the badger store to args[0], or to a timestamped file in the backup directory.
func backup(ctx context.Context, env *environment, args []string) error {
	store, err := env.badgerStore(ctx, "backup")
	if err != nil {
		return err
	}
	defer store.Close()

	backupFile := filepath.Join(env.cfg.BackupDir, fmt.Sprintf("backup_%d.db", time.Now().Unix()))
	if len(args) > 0 {
		backupFile = args[0]
	}
	if err := os.MkdirAll(filepath.Dir(backupFile), 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	f, err := os.Create(backupFile)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.Close()

	if err := store.Backup(f); err != nil {
		return err
	}
	fmt.Printf("Database backed up successfully to %s\n", backupFile)
	return nil
}

// restore clears the badger store and loads the backup at args[0].
func restore(ctx context.Context, env *environment, args []string) error {
	yes, args := hasFlag(args, "--yes")
	if len(args) == 0 {
		return fmt.Errorf("backup file path required for restore")
	}
	backupFile := args[0]

	fi, err := os.Stat(backupFile)
	if err != nil {
		return fmt.Errorf("backup file does not exist: %s", backupFile)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("backup file is empty: %s", backupFile)
	}

	if !yes && !confirm("Existing data will be replaced. Continue?") {
		fmt.Println("Operation cancelled")
		return nil
	}

	store, err := env.badgerStore(ctx, "restore")
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()

	if err := store.Clear(ctx); err != nil {
		return err
	}
	if err := store.Restore(f); err != nil {
		return err
	}
	fmt.Println("Database restored successfully")
	return nil
}

// clean removes every record from the configured store.
func clean(ctx context.Context, env *environment, args []string) error {
	if yes, _ := hasFlag(args, "--yes"); !yes && !confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Println("Operation cancelled")
		return nil
	}

	store, err := env.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(ctx); err != nil {
		return err
	}
	fmt.Println("Database cleaned successfully")
	return nil
}
