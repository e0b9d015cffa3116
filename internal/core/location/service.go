// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

package location

import (
	"context"
	"log/slog"

	"github.com/facilia/facilia/internal/cafm"
	"github.com/facilia/facilia/internal/platform/cache"
	"github.com/facilia/facilia/internal/platform/constants"
)

// Service serves the flattened location list backing the wizard's first step.
type Service struct {
	source Source
	cache  cache.Store
	logger *slog.Logger
}

// NewService constructs the location service.
func NewService(source Source, cacheStore cache.Store, logger *slog.Logger) *Service {
	return &Service{
		source: source,
		cache:  cacheStore,
		logger: logger,
	}
}

// Flattened returns the pre-order flattened location list for the tenant.
//
// The flattened projection (not the raw tree) is what gets cached: it is
// recomputed whenever the source tree is re-fetched and never mutated in
// place. The cache key embeds the tenant, so one tenant's topology can
// never bleed into another's.
func (service *Service) Flattened(ctx context.Context, session cafm.Session) ([]Flat, error) {
	key := constants.RedisPrefixLocationTree + session.TenantID

	var cached []Flat
	found, err := service.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		// A broken cache degrades to an upstream fetch, never to a failure.
		service.logger.Warn("location_cache_read_failed", slog.Any("error", err))
	}
	if found {
		return cached, nil
	}

	roots, err := service.source.Tree(ctx, session)
	if err != nil {
		return nil, err
	}

	flat := Flatten(roots)

	if err := service.cache.SetJSON(ctx, key, flat, constants.LocationTreeTTL); err != nil {
		service.logger.Warn("location_cache_write_failed", slog.Any("error", err))
	}

	return flat, nil
}

// Search returns the flattened list filtered by a free-text query.
//
// An empty result set is a valid answer, not an error — the handler renders
// it as an empty list for the picker's empty state.
func (service *Service) Search(ctx context.Context, session cafm.Session, query string) ([]Flat, error) {
	flat, err := service.Flattened(ctx, session)
	if err != nil {
		return nil, err
	}
	return Filter(flat, query), nil
}
