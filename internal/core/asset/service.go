// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

package asset

import (
	"context"
	"log/slog"

	"github.com/facilia/facilia/internal/cafm"
	"github.com/facilia/facilia/internal/platform/cache"
	"github.com/facilia/facilia/internal/platform/constants"
)

// Service serves asset reads for the wizard's location/asset step.
type Service struct {
	source Source
	cache  cache.Store
	logger *slog.Logger
}

// NewService constructs the asset service.
func NewService(source Source, cacheStore cache.Store, logger *slog.Logger) *Service {
	return &Service{
		source: source,
		cache:  cacheStore,
		logger: logger,
	}
}

// Get fetches a single asset, uncached.
//
// Single-record reads back the wizard's asset-first entry resolution, where
// a stale location id would silently mis-seed the draft — so they always go
// to the system of record.
func (service *Service) Get(ctx context.Context, session cafm.Session, id string) (*Asset, error) {
	return service.source.Get(ctx, session, id)
}

// ListByLocation returns the assets at a location, cached per input.
//
// The cache key embeds both the tenant and the location id. When the user
// changes location while an older list fetch is still in flight, the old
// fetch can only complete into the old location's key; the new selection
// reads its own key and can never observe the stale result. Last intent
// wins because responses are filed by the question they answered, not by
// arrival order.
func (service *Service) ListByLocation(ctx context.Context, session cafm.Session, locationID string) ([]Asset, error) {
	key := constants.RedisPrefixAssets + session.TenantID + ":" + keyScope(locationID)

	var cached []Asset
	found, err := service.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		service.logger.Warn("asset_cache_read_failed", slog.Any("error", err))
	}
	if found {
		return cached, nil
	}

	records, err := service.source.ListByLocation(ctx, session, locationID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		// An empty location is a valid terminal state for the picker.
		records = []Asset{}
	}

	if err := service.cache.SetJSON(ctx, key, records, constants.AssetListTTL); err != nil {
		service.logger.Warn("asset_cache_write_failed", slog.Any("error", err))
	}

	return records, nil
}

// keyScope normalizes the optional location filter into a key segment.
func keyScope(locationID string) string {
	if locationID == "" {
		return "-"
	}
	return locationID
}
