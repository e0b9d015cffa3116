// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

package category

import (
	"context"

	"github.com/facilia/facilia/internal/cafm"
	"github.com/facilia/facilia/pkg/slice"
)

// upstreamCategory is the wire shape the CAFM API serves. Icons arrive as
// free-form strings and are pinned to the closed [Icon] set on the way in.
type upstreamCategory struct {
	ID       string             `json:"id"`
	Label    Label              `json:"label"`
	Icon     string             `json:"icon"`
	Color    string             `json:"color"`
	Children []upstreamCategory `json:"children"`
}

// CAFMSource implements [Source] against the upstream CAFM REST API.
type CAFMSource struct {
	client *cafm.Client
}

// NewCAFMSource wraps the shared upstream client.
func NewCAFMSource(client *cafm.Client) *CAFMSource {
	return &CAFMSource{client: client}
}

// Taxonomy returns the tenant's category forest with icons normalized.
func (source *CAFMSource) Taxonomy(ctx context.Context, session cafm.Session) ([]Category, error) {
	var records []upstreamCategory
	if err := source.client.GetJSON(ctx, session, "/api/v1/issue-categories", &records); err != nil {
		return nil, err
	}
	return slice.Map(records, fromUpstream), nil
}

func fromUpstream(record upstreamCategory) Category {
	return Category{
		ID:       record.ID,
		Label:    record.Label,
		Icon:     ParseIcon(record.Icon),
		Color:    record.Color,
		Children: slice.Map(record.Children, fromUpstream),
	}
}
