// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

package auth

import (
	"context"

	"github.com/facilia/facilia/internal/cafm"
)

// CAFMUpstream implements [Upstream] against the upstream CAFM REST API.
type CAFMUpstream struct {
	client *cafm.Client
}

// NewCAFMUpstream wraps the shared upstream client.
func NewCAFMUpstream(client *cafm.Client) *CAFMUpstream {
	return &CAFMUpstream{client: client}
}

// Login exchanges credentials for an upstream identity.
func (upstream *CAFMUpstream) Login(ctx context.Context, session cafm.Session, username, password string) (*UpstreamIdentity, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}

	var identity UpstreamIdentity
	if err := upstream.client.PostJSON(ctx, session, "/api/v1/auth/login", body, &identity); err != nil {
		return nil, err
	}

	return &identity, nil
}
