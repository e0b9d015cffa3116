// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

/*
Package auth implements mobile session establishment for the gateway.

The gateway holds no user accounts and no password hashes. At login it
forwards the credentials to the upstream CAFM API for verification, then
mints its own short-lived RS256 JWT embedding everything later requests
need: user id, role, tenant id, and the upstream access token. From that
point on, the gateway is stateless — every authenticated request carries
its complete upstream session inside its own bearer token.
*/
package auth

import (
	"github.com/facilia/facilia/internal/cafm"
	"github.com/facilia/facilia/internal/platform/sec"
)

// UpstreamIdentity is what the upstream CAFM API returns for verified credentials.
type UpstreamIdentity struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginResult is the payload returned to the mobile client after login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	TenantID    string `json:"tenant_id"`
}

// UpstreamSession rebuilds the explicit upstream request context from
// verified gateway claims. This is the only place the two credential
// domains (gateway JWT, upstream token) meet.
func UpstreamSession(claims *sec.AuthClaims) cafm.Session {
	return cafm.Session{
		Token:    claims.UpstreamToken,
		TenantID: claims.TenantID,
	}
}
