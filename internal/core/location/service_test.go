// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

package location_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facilia/facilia/internal/cafm"
	"github.com/facilia/facilia/internal/core/location"
	"github.com/facilia/facilia/internal/platform/cache"
)

// fakeSource counts upstream fetches so tests can observe cache hits.
type fakeSource struct {
	roots []location.Node
	calls int
	err   error
}

func (source *fakeSource) Tree(ctx context.Context, session cafm.Session) ([]location.Node, error) {
	source.calls++
	if source.err != nil {
		return nil, source.err
	}
	return source.roots, nil
}

/*
TestService_Flattened_CachesPerTenant verifies the read-through behavior
and that cache keys isolate tenants.
*/
func TestService_Flattened_CachesPerTenant(t *testing.T) {
	source := &fakeSource{roots: sampleForest()}
	service := location.NewService(source, cache.NewMemoryStore(), slog.Default())

	acme := cafm.Session{Token: "t", TenantID: "acme"}

	first, err := service.Flattened(context.Background(), acme)
	require.NoError(t, err)
	second, err := service.Flattened(context.Background(), acme)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.calls, "second read must come from cache")

	// A different tenant misses the cache and fetches its own tree.
	_, err = service.Flattened(context.Background(), cafm.Session{Token: "t", TenantID: "globex"})
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

/*
TestService_Search filters the cached projection without re-fetching.
*/
func TestService_Search(t *testing.T) {
	source := &fakeSource{roots: sampleForest()}
	service := location.NewService(source, cache.NewMemoryStore(), slog.Default())
	session := cafm.Session{Token: "t", TenantID: "acme"}

	all, err := service.Search(context.Background(), session, "")
	require.NoError(t, err)
	assert.Len(t, all, 6)

	floors, err := service.Search(context.Background(), session, "Floor")
	require.NoError(t, err)
	assert.Len(t, floors, 2)

	none, err := service.Search(context.Background(), session, "loading dock")
	require.NoError(t, err)
	assert.Empty(t, none)

	assert.Equal(t, 1, source.calls)
}

/*
TestService_Flattened_UpstreamFailure propagates upstream errors untouched.
*/
func TestService_Flattened_UpstreamFailure(t *testing.T) {
	source := &fakeSource{err: assert.AnError}
	service := location.NewService(source, cache.NewMemoryStore(), slog.Default())

	_, err := service.Flattened(context.Background(), cafm.Session{TenantID: "acme"})
	assert.ErrorIs(t, err, assert.AnError)
}
