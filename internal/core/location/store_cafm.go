// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

package location

import (
	"context"

	"github.com/facilia/facilia/internal/cafm"
)

// CAFMSource implements [Source] against the upstream CAFM REST API.
type CAFMSource struct {
	client *cafm.Client
}

// NewCAFMSource wraps the shared upstream client.
func NewCAFMSource(client *cafm.Client) *CAFMSource {
	return &CAFMSource{client: client}
}

// Tree fetches the full location forest for the session's tenant.
func (source *CAFMSource) Tree(ctx context.Context, session cafm.Session) ([]Node, error) {
	var roots []Node
	if err := source.client.GetJSON(ctx, session, "/api/v1/locations/tree", &roots); err != nil {
		return nil, err
	}
	return roots, nil
}
