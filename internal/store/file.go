package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Gaurav-Gosain/tilecols/internal/layout"
	"github.com/pelletier/go-toml/v2"
)

// FileStore keeps one TOML file per strategy under BasePath/<session>/.
type FileStore struct {
	BasePath string

	mu sync.Mutex
}

// NewFileStore creates a FileStore rooted at basePath.
func NewFileStore(basePath string) *FileStore {
	return &FileStore{BasePath: basePath}
}

func (f *FileStore) path(session, strategy string) string {
	return filepath.Join(f.BasePath, session, strategy+".toml")
}

// Save writes state atomically.
func (f *FileStore) Save(_ context.Context, session, strategy string, state layout.State) error {
	if err := validateKey(session, strategy); err != nil {
		return err
	}

	data, err := toml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Join(f.BasePath, session)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, strategy+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path(session, strategy)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// Load reads the state saved for session and strategy.
func (f *FileStore) Load(_ context.Context, session, strategy string) (layout.State, error) {
	if err := validateKey(session, strategy); err != nil {
		return layout.State{}, err
	}

	f.mu.Lock()
	data, err := os.ReadFile(f.path(session, strategy))
	f.mu.Unlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return layout.State{}, ErrStateNotFound
		}
		return layout.State{}, fmt.Errorf("failed to read state file: %w", err)
	}

	var state layout.State
	if err := toml.Unmarshal(data, &state); err != nil {
		return layout.State{}, fmt.Errorf("failed to parse state file: %w", err)
	}
	return state, nil
}

// Delete removes the state file. Deleting a missing state is not an error.
func (f *FileStore) Delete(_ context.Context, session, strategy string) error {
	if err := validateKey(session, strategy); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path(session, strategy)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete state file: %w", err)
	}
	return nil
}

// List returns the strategies saved for session.
func (f *FileStore) List(_ context.Context, session string) ([]string, error) {
	if err := validateKey(session, "list"); err != nil {
		return nil, err
	}

	f.mu.Lock()
	entries, err := os.ReadDir(filepath.Join(f.BasePath, session))
	f.mu.Unlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list states: %w", err)
	}

	strategies := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".toml" {
			continue
		}
		strategies = append(strategies, strings.TrimSuffix(name, ".toml"))
	}
	sort.Strings(strategies)
	return strategies, nil
}

// Close is a no-op.
func (f *FileStore) Close() error { return nil }
