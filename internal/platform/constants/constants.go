// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

/*
Package constants provides centralized, immutable values for the entire gateway.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuer and header names.
  - Cache Taxonomy: Redis key prefixes for upstream read-through caches.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "facilia-mobile-api"
	AppVersion = "0.3.0"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Image uploads from mobile networks need headroom here.
	DefaultReadTimeout = 30 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle,
	// including the upstream CAFM call it may fan into.
	GlobalRequestTimeout = 60 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Upstream CAFM API

const (
	// UpstreamRequestTimeout bounds a single call to the upstream CAFM API.
	UpstreamRequestTimeout = 25 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs minted by the gateway.
	AuthIssuer = "facilia.app"

	// AccessTokenTTL is the lifetime of a minted mobile session token.
	AccessTokenTTL = 12 * time.Hour
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"

	// HeaderTenant carries the tenant identifier on login, before a session
	// exists. Authenticated requests derive the tenant from JWT claims instead.
	HeaderTenant = "X-Tenant-ID"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)
//
// Every cache key embeds the inputs of the upstream request that produced it
// (tenant, location, locale). Keying by input is what guarantees that a stale
// in-flight fetch can never overwrite results for a newer selection.

const (
	RedisPrefixLocationTree = "cache:locations:"  // + tenant
	RedisPrefixAssets       = "cache:assets:"     // + tenant + ":" + location id ("-" when unscoped)
	RedisPrefixCategories   = "cache:categories:" // + tenant
)

// # Wizard Drafts

const (
	// DraftSweepInterval is how often idle wizard drafts are reaped.
	DraftSweepInterval = 1 * time.Minute
)

// # Cache Timing

const (
	// LocationTreeTTL is how long the flattened location tree is served from cache.
	// Facility topology changes rarely; a short TTL keeps renames visible.
	LocationTreeTTL = 5 * time.Minute

	// AssetListTTL is how long a per-location asset list is served from cache.
	AssetListTTL = 2 * time.Minute

	// CategoryTreeTTL is how long the issue-category taxonomy is served from cache.
	CategoryTreeTTL = 10 * time.Minute
)
