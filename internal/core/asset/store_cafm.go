// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

package asset

import (
	"context"
	"net/url"

	"github.com/facilia/facilia/internal/cafm"
	"github.com/facilia/facilia/internal/platform/apperr"
)

// CAFMSource implements [Source] against the upstream CAFM REST API.
type CAFMSource struct {
	client *cafm.Client
}

// NewCAFMSource wraps the shared upstream client.
func NewCAFMSource(client *cafm.Client) *CAFMSource {
	return &CAFMSource{client: client}
}

// Get returns a single asset by id.
func (source *CAFMSource) Get(ctx context.Context, session cafm.Session, id string) (*Asset, error) {
	var record Asset
	if err := source.client.GetJSON(ctx, session, "/api/v1/assets/"+url.PathEscape(id), &record); err != nil {
		if ae := apperr.As(err); ae != nil && ae.Code == "NOT_FOUND" {
			return nil, apperr.NotFound("Asset")
		}
		return nil, err
	}
	return &record, nil
}

// ListByLocation returns the assets at a location.
func (source *CAFMSource) ListByLocation(ctx context.Context, session cafm.Session, locationID string) ([]Asset, error) {
	path := "/api/v1/assets"
	if locationID != "" {
		path += "?location_id=" + url.QueryEscape(locationID)
	}

	var records []Asset
	if err := source.client.GetJSON(ctx, session, path, &records); err != nil {
		return nil, err
	}
	return records, nil
}
