package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"postboard/app/config"
	"postboard/app/logging"
	"postboard/app/repositories"

	"github.com/rs/zerolog"
)

// environment is what every command needs before it runs.
type environment struct {
	cfg    *config.Config
	log    zerolog.Logger
	closer io.Closer
}

func loadEnvironment() (*environment, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	logger, closer, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Path:   cfg.LogFile,
	}, os.Stderr)
	if err != nil {
		return nil, err
	}
	return &environment{cfg: cfg, log: logger, closer: closer}, nil
}

// openStore opens the configured backend.
func (e *environment) openStore(ctx context.Context) (repositories.Store, error) {
	store, err := repositories.Open(ctx, repositories.Options{
		Driver:     e.cfg.StoreDriver,
		BadgerPath: e.cfg.BadgerPath,
		DSN:        e.cfg.DatabaseURL,
		Logger:     e.log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", e.cfg.StoreDriver, err)
	}
	return store, nil
}

// badgerStore opens the store and insists on the Badger backend.
func (e *environment) badgerStore(ctx context.Context, action string) (*repositories.BadgerStore, error) {
	if e.cfg.StoreDriver != repositories.DriverBadger {
		return nil, fmt.Errorf("%s is only supported for the badger store, not %s", action, e.cfg.StoreDriver)
	}
	store, err := e.openStore(ctx)
	if err != nil {
		return nil, err
	}
	return store.(*repositories.BadgerStore), nil
}

// confirm asks a yes/no question on stdout and reads the answer from stdin.
func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer = strings.TrimSpace(answer)
	return answer == "y" || answer == "Y"
}

// hasFlag reports whether flag appears in args and returns args without it.
func hasFlag(args []string, flag string) (bool, []string) {
	rest := make([]string, 0, len(args))
	found := false
	for _, a := range args {
		if a == flag {
			found = true
			continue
		}
		rest = append(rest, a)
	}
	return found, rest
}
