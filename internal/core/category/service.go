// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

package category

import (
	"context"
	"log/slog"

	"github.com/facilia/facilia/internal/cafm"
	"github.com/facilia/facilia/internal/platform/cache"
	"github.com/facilia/facilia/internal/platform/constants"
)

// Service serves the issue-category taxonomy for the wizard's classification step.
type Service struct {
	source Source
	cache  cache.Store
	logger *slog.Logger
}

// NewService constructs the category service.
func NewService(source Source, cacheStore cache.Store, logger *slog.Logger) *Service {
	return &Service{
		source: source,
		cache:  cacheStore,
		logger: logger,
	}
}

// Taxonomy returns the tenant's category forest, cached. Cache failures
// degrade to an upstream fetch; the taxonomy read must not break on a cold
// or unreachable Redis.
func (service *Service) Taxonomy(ctx context.Context, session cafm.Session) ([]Category, error) {
	key := constants.RedisPrefixCategories + session.TenantID

	var cached []Category
	found, err := service.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		service.logger.Warn("category_cache_read_failed", slog.Any("error", err))
	}
	if found {
		return cached, nil
	}

	records, err := service.source.Taxonomy(ctx, session)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []Category{}
	}

	if err := service.cache.SetJSON(ctx, key, records, constants.CategoryTreeTTL); err != nil {
		service.logger.Warn("category_cache_write_failed", slog.Any("error", err))
	}

	return records, nil
}
