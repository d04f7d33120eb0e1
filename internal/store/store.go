// Package store persists layout.State per session and strategy.
//
// Every backend keys state by a session name (one simulated screen, see
// internal/host) and a strategy name, so switching strategies and back
// restores where the user left off.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Gaurav-Gosain/tilecols/internal/config"
	"github.com/Gaurav-Gosain/tilecols/internal/layout"
)

// ErrStateNotFound is returned by Load when nothing is saved under a key.
var ErrStateNotFound = errors.New("state not found")

// Store is a state backend. Implementations are safe for concurrent use.
type Store interface {
	Load(ctx context.Context, session, strategy string) (layout.State, error)
	Save(ctx context.Context, session, strategy string, state layout.State) error
	Delete(ctx context.Context, session, strategy string) error
	// List returns the strategies with saved state in session, sorted.
	List(ctx context.Context, session string) ([]string, error)
	Close() error
}

// validateKey rejects names that cannot be used as path segments or keys.
func validateKey(session, strategy string) error {
	for _, part := range []struct{ name, value string }{{"session", session}, {"strategy", strategy}} {
		if part.value == "" {
			return fmt.Errorf("%s cannot be empty", part.name)
		}
		if strings.ContainsAny(part.value, `/\:`) || part.value == "." || part.value == ".." {
			return fmt.Errorf("invalid %s name %q", part.name, part.value)
		}
	}
	return nil
}

// Open creates the backend selected by cfg.
func Open(cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case "", "file":
		dir := cfg.Path
		if dir == "" {
			var err error
			if dir, err = config.StateDir(); err != nil {
				return nil, err
			}
		}
		return NewFileStore(dir), nil
	case "redis":
		return NewRedisStore(cfg.RedisAddr, "", cfg.RedisDB, WithPrefix(cfg.RedisPrefix)), nil
	case "sqlite":
		path := cfg.Path
		if path == "" {
			dir, err := config.StateDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, "state.db")
		}
		return OpenSQLite(path)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
