// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

/*
Package cache provides the read-through cache seam for upstream CAFM data.

# Architecture

Domain services depend on the [Store] interface rather than a concrete Redis
client, mirroring how storage interfaces decouple the rest of the codebase.
Production wiring injects [RedisStore]; tests inject [MemoryStore].

# Keying Discipline

Callers must embed every input of the underlying upstream request into the
cache key (tenant, location id, locale). A key is immutable evidence of what
question was asked; a slow, superseded fetch can only ever fill its own key,
never the key of a newer selection. This is the mechanism behind the
last-intent-wins guarantee for the wizard's asset lists.
*/
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the gateway's volatile cache contract.
type Store interface {
	// GetJSON loads the value at key into target.
	// The boolean reports whether the key existed.
	GetJSON(ctx context.Context, key string, target interface{}) (bool, error)

	// SetJSON stores value at key with the given TTL.
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// # Redis Implementation

// RedisStore implements [Store] on a shared Redis client.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps a connected Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// GetJSON loads and unmarshals the value at key.
func (store *RedisStore) GetJSON(ctx context.Context, key string, target interface{}) (bool, error) {
	payload, err := store.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("cache: get %s: %w", key, err)
	}

	if err := json.Unmarshal(payload, target); err != nil {
		return false, fmt.Errorf("cache: decode %s: %w", key, err)
	}

	return true, nil
}

// SetJSON marshals and stores the value at key with a TTL.
func (store *RedisStore) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}

	if err := store.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}

	return nil
}

// Delete removes a key.
func (store *RedisStore) Delete(ctx context.Context, key string) error {
	if err := store.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache: delete %s: %w", key, err)
	}
	return nil
}

// # In-Memory Implementation

// memoryEntry is one stored value with its expiry deadline.
type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryStore is a process-local [Store] used in unit tests and as a
// degraded-mode fallback when Redis is not configured.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// GetJSON loads and unmarshals the value at key, honoring expiry.
func (store *MemoryStore) GetJSON(ctx context.Context, key string, target interface{}) (bool, error) {
	store.mu.RLock()
	entry, found := store.entries[key]
	store.mu.RUnlock()

	if !found || time.Now().After(entry.expiresAt) {
		return false, nil
	}

	if err := json.Unmarshal(entry.payload, target); err != nil {
		return false, fmt.Errorf("cache: decode %s: %w", key, err)
	}

	return true, nil
}

// SetJSON marshals and stores the value at key with a TTL.
func (store *MemoryStore) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}

	store.mu.Lock()
	store.entries[key] = memoryEntry{payload: payload, expiresAt: time.Now().Add(ttl)}
	store.mu.Unlock()

	return nil
}

// Delete removes a key.
func (store *MemoryStore) Delete(ctx context.Context, key string) error {
	store.mu.Lock()
	delete(store.entries, key)
	store.mu.Unlock()
	return nil
}
