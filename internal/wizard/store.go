// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

package wizard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/facilia/facilia/internal/platform/apperr"
)

// Store is the in-memory draft container. Drafts are volatile: a process
// restart loses them, which is the accepted cost of the gateway owning no
// persistent state.
//
// A single mutex guards the whole map. Mutations run inside [Store.Update]
// so draft invariants hold atomically; the upstream submission call happens
// outside the lock, protected by the draft's in-flight flag instead.
type Store struct {
	mu      sync.Mutex
	entries map[string]*Draft
	ttl     time.Duration
}

// NewStore creates an empty store whose drafts expire after ttl of inactivity.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]*Draft),
		ttl:     ttl,
	}
}

// Put registers a new draft.
func (store *Store) Put(draft *Draft) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.entries[draft.ID] = draft
}

// Update runs fn on the owned, unexpired draft while holding the store lock.
//
// Ownership failures and unknown ids both come back as NotFound so a draft
// id cannot be probed across users or tenants.
func (store *Store) Update(draftID, tenantID, userID string, fn func(*Draft) error) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	draft, err := store.lookup(draftID, tenantID, userID)
	if err != nil {
		return err
	}

	return fn(draft)
}

// Take removes the owned draft from the store and returns it. The caller is
// responsible for releasing its attachments.
func (store *Store) Take(draftID, tenantID, userID string) (*Draft, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	draft, err := store.lookup(draftID, tenantID, userID)
	if err != nil {
		return nil, err
	}

	delete(store.entries, draftID)
	return draft, nil
}

// Len reports the number of live drafts.
func (store *Store) Len() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.entries)
}

// lookup finds an owned, unexpired draft. Caller holds the lock.
// An expired draft is reaped on the spot rather than waiting for the sweep.
func (store *Store) lookup(draftID, tenantID, userID string) (*Draft, error) {
	draft, found := store.entries[draftID]
	if !found || draft.TenantID != tenantID || draft.UserID != userID {
		return nil, apperr.NotFound("Draft")
	}

	if store.expired(draft, time.Now()) {
		delete(store.entries, draftID)
		draft.ReleaseAll()
		return nil, apperr.NotFound("Draft")
	}

	return draft, nil
}

// expired reports whether the draft has idled past the TTL. A draft with a
// submission in flight never expires out from under it.
func (store *Store) expired(draft *Draft, now time.Time) bool {
	if draft.submitting {
		return false
	}
	return now.Sub(draft.LastActivity) > store.ttl
}

// Sweep reaps every expired draft and releases its attachments, returning
// the number removed.
func (store *Store) Sweep(now time.Time) int {
	store.mu.Lock()
	defer store.mu.Unlock()

	removed := 0
	for id, draft := range store.entries {
		if store.expired(draft, now) {
			delete(store.entries, id)
			draft.ReleaseAll()
			removed++
		}
	}
	return removed
}

// Run sweeps periodically until the context is cancelled. It is started as
// a background goroutine from main.
func (store *Store) Run(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := store.Sweep(now); removed > 0 {
				logger.Info("wizard_drafts_swept", slog.Int("removed", removed))
			}
		}
	}
}
