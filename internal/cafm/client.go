// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

/*
Package cafm provides the low-level HTTP client for the upstream Facilia
CAFM REST API, the system of record for locations, assets, categories, and
service requests.

# Architecture

Domain packages define their own source interfaces (mirroring the store
pattern used elsewhere in the codebase) and implement them on top of this
client. The client itself knows nothing about domain types — it handles
transport mechanics only: request construction, session headers, JSON
decoding, and mapping upstream failures into [apperr.AppError] values.

# Sessions

Every call takes an explicit [Session] value carrying the upstream access
token and the tenant identifier. There is no ambient credential storage:
whoever calls the upstream must say, in the call, on whose behalf. This
keeps the wizard's network dependencies visible and testable.

# Reliability

The client never retries. A failed upstream call is surfaced to the caller
exactly once; retry policy belongs to the mobile client, which owns the
user's intent.
*/
package cafm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/facilia/facilia/internal/platform/apperr"
	"github.com/facilia/facilia/internal/platform/constants"
)

// Session is the explicit upstream request context: who is calling, and
// which tenant's facility data the call is scoped to.
type Session struct {
	// Token is the upstream bearer token obtained at login.
	Token string

	// TenantID selects the tenant database on the upstream side.
	TenantID string
}

// Anonymous returns a session carrying only a tenant scope. It is used for
// the login call itself, which happens before any token exists.
func Anonymous(tenantID string) Session {
	return Session{TenantID: tenantID}
}

// Client talks to the upstream CAFM REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient constructs a Client with a default HTTP client.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return NewClientWithHTTPClient(baseURL, &http.Client{Timeout: constants.UpstreamRequestTimeout}, logger)
}

// NewClientWithHTTPClient constructs a Client around a specific *http.Client.
// This allows passing an instrumented or test transport.
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.UpstreamRequestTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// # JSON Operations

// GetJSON performs a GET against path and decodes the response body into target.
func (client *Client) GetJSON(ctx context.Context, session Session, path string, target interface{}) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+path, nil)
	if err != nil {
		return apperr.Internal(fmt.Errorf("cafm: build request for %s: %w", path, err))
	}

	return client.do(request, session, target)
}

// PostJSON performs a POST with a JSON body and decodes the response into target.
func (client *Client) PostJSON(ctx context.Context, session Session, path string, body, target interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return apperr.Internal(fmt.Errorf("cafm: encode body for %s: %w", path, err))
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return apperr.Internal(fmt.Errorf("cafm: build request for %s: %w", path, err))
	}
	request.Header.Set("Content-Type", "application/json")

	return client.do(request, session, target)
}

// # Multipart Operations

// FilePart describes one file in a multipart submission.
type FilePart struct {
	// Field is the multipart field name (e.g. "images").
	Field string
	// Filename is the original filename reported to the upstream.
	Filename string
	// Reader supplies the file bytes. The client drains it fully.
	Reader io.Reader
}

// PostMultipart performs a multipart/form-data POST.
//
// Fields are written in map-iteration order; files are written in slice
// order, which preserves the ordering contract for wizard image attachments.
// Fields with empty values must be excluded by the caller — absence and
// emptiness are distinct on the wire.
func (client *Client) PostMultipart(ctx context.Context, session Session, path string, fields map[string]string, files []FilePart, target interface{}) error {
	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return apperr.Internal(fmt.Errorf("cafm: write field %s: %w", name, err))
		}
	}

	for _, file := range files {
		part, err := writer.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return apperr.Internal(fmt.Errorf("cafm: create file part %s: %w", file.Filename, err))
		}
		if _, err := io.Copy(part, file.Reader); err != nil {
			return apperr.Internal(fmt.Errorf("cafm: copy file part %s: %w", file.Filename, err))
		}
	}

	if err := writer.Close(); err != nil {
		return apperr.Internal(fmt.Errorf("cafm: finalize multipart body: %w", err))
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL+path, &buffer)
	if err != nil {
		return apperr.Internal(fmt.Errorf("cafm: build request for %s: %w", path, err))
	}
	request.Header.Set("Content-Type", writer.FormDataContentType())

	return client.do(request, session, target)
}

// # Health

// Ping checks upstream reachability for the readiness probe.
func (client *Client) Ping(ctx context.Context) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("cafm: build ping request: %w", err)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("cafm: upstream unreachable: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 500 {
		return fmt.Errorf("cafm: upstream unhealthy: status %d", response.StatusCode)
	}
	return nil
}

// # Internals

// upstreamError is the error envelope the upstream API returns.
type upstreamError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// do executes the request with session headers and decodes the response.
func (client *Client) do(request *http.Request, session Session, target interface{}) error {
	if session.Token != "" {
		request.Header.Set("Authorization", "Bearer "+session.Token)
	}
	if session.TenantID != "" {
		request.Header.Set(constants.HeaderTenant, session.TenantID)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		// Transport failure: DNS, connect, timeout. Never retried here.
		return apperr.Upstream(fmt.Errorf("cafm: %s %s: %w", request.Method, request.URL.Path, err))
	}
	defer response.Body.Close()

	if response.StatusCode >= 400 {
		return client.mapStatus(response)
	}

	if target == nil || response.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, response.Body)
		return nil
	}

	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		return apperr.Upstream(fmt.Errorf("cafm: decode %s response: %w", request.URL.Path, err))
	}

	return nil
}

// mapStatus converts an upstream failure response into an [apperr.AppError].
func (client *Client) mapStatus(response *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(response.Body, 64<<10))

	var envelope upstreamError
	message := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		message = envelope.Error
	}

	if client.logger != nil {
		client.logger.Warn("upstream_request_rejected",
			slog.String("path", response.Request.URL.Path),
			slog.Int("status", response.StatusCode),
			slog.String("code", envelope.Code),
		)
	}

	switch response.StatusCode {
	case http.StatusBadRequest:
		return apperr.ValidationError(message)
	case http.StatusUnauthorized:
		return apperr.Unauthorized("Upstream session is invalid or expired")
	case http.StatusForbidden:
		return apperr.Forbidden("Not permitted by the facility service")
	case http.StatusNotFound:
		return apperr.NotFound("Resource")
	case http.StatusConflict:
		return apperr.Conflict(message)
	case http.StatusUnprocessableEntity:
		return apperr.Unprocessable(message)
	default:
		return apperr.Upstream(fmt.Errorf("cafm: status %d: %s", response.StatusCode, message))
	}
}
