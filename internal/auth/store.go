package auth

import (
	"context"

	"github.com/facilia/facilia/internal/cafm"
)

// Upstream verifies credentials against the system of record.
type Upstream interface {
	// Login exchanges credentials for an upstream identity.
	// The session carries only the tenant scope; no token exists yet.
	Login(ctx context.Context, session cafm.Session, username, password string) (*UpstreamIdentity, error)
}
