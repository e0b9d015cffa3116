// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/facilia/facilia/internal/cafm"
	"github.com/facilia/facilia/internal/platform/constants"
	"github.com/facilia/facilia/internal/platform/sec"
	"github.com/facilia/facilia/internal/platform/validate"
)

// TokenMinter abstracts JWT generation so tests can run without RSA key files.
type TokenMinter interface {
	GenerateAccessToken(claims sec.AuthClaims, timeToLive time.Duration) (string, error)
}

// Service orchestrates the login flow.
type Service struct {
	upstream Upstream
	tokens   TokenMinter
	logger   *slog.Logger
}

// NewService constructs the auth service.
func NewService(upstream Upstream, tokens TokenMinter, logger *slog.Logger) *Service {
	return &Service{
		upstream: upstream,
		tokens:   tokens,
		logger:   logger,
	}
}

// Login verifies credentials upstream and mints a gateway session token.
func (service *Service) Login(ctx context.Context, tenantID, username, password string) (*LoginResult, error) {
	v := &validate.Validator{}
	if err := v.
		Required("tenant", tenantID).
		Required("username", username).
		Required("password", password).
		Err(); err != nil {
		return nil, err
	}

	identity, err := service.upstream.Login(ctx, cafm.Anonymous(tenantID), username, password)
	if err != nil {
		return nil, err
	}

	accessToken, err := service.tokens.GenerateAccessToken(sec.AuthClaims{
		UserID:        identity.UserID,
		Username:      identity.Username,
		TenantID:      tenantID,
		Role:          identity.Role,
		UpstreamToken: identity.Token,
	}, constants.AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	service.logger.Info("mobile_session_created",
		slog.String("user_id", identity.UserID),
		slog.String("tenant_id", tenantID),
	)

	return &LoginResult{
		AccessToken: accessToken,
		UserID:      identity.UserID,
		Username:    identity.Username,
		Role:        identity.Role,
		TenantID:    tenantID,
	}, nil
}
