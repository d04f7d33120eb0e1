package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Gaurav-Gosain/tilecols/internal/layout"
	backend "github.com/redis/go-redis/v9"
)

// RedisStore keeps state as JSON strings, with a set per session indexing
// the strategies saved in it.
type RedisStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTTL expires saved state after ttl. Zero keeps it forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewRedisStore connects to the redis server at address.
func NewRedisStore(address, password string, db int, opts ...RedisOption) *RedisStore {
	return NewRedisStoreFromClient(backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	}), opts...)
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *backend.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: "tilecols:state:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(session, strategy string) string {
	return s.prefix + session + ":" + strategy
}

func (s *RedisStore) indexKey(session string) string {
	return s.prefix + session + ":index"
}

// Save stores state and indexes it under session.
func (s *RedisStore) Save(ctx context.Context, session, strategy string, state layout.State) error {
	if err := validateKey(session, strategy); err != nil {
		return err
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(session, strategy), data, s.ttl)
	pipe.SAdd(ctx, s.indexKey(session), strategy)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the state saved for session and strategy.
func (s *RedisStore) Load(ctx context.Context, session, strategy string) (layout.State, error) {
	if err := validateKey(session, strategy); err != nil {
		return layout.State{}, err
	}

	val, err := s.client.Get(ctx, s.key(session, strategy)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return layout.State{}, ErrStateNotFound
		}
		return layout.State{}, fmt.Errorf("failed to get from redis: %w", err)
	}

	var state layout.State
	if err := json.Unmarshal(val, &state); err != nil {
		return layout.State{}, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	return state, nil
}

// Delete removes the state and its index entry.
func (s *RedisStore) Delete(ctx context.Context, session, strategy string) error {
	if err := validateKey(session, strategy); err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(session, strategy))
	pipe.SRem(ctx, s.indexKey(session), strategy)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// List returns the indexed strategies of session whose state has not
// expired. Expired entries are pruned from the index.
func (s *RedisStore) List(ctx context.Context, session string) ([]string, error) {
	if err := validateKey(session, "list"); err != nil {
		return nil, err
	}

	members, err := s.client.SMembers(ctx, s.indexKey(session)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list states: %w", err)
	}

	strategies := []string{}
	for _, strategy := range members {
		n, err := s.client.Exists(ctx, s.key(session, strategy)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to check state: %w", err)
		}
		if n == 0 {
			s.client.SRem(ctx, s.indexKey(session), strategy)
			continue
		}
		strategies = append(strategies, strategy)
	}
	sort.Strings(strategies)
	return strategies, nil
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
