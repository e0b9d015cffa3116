// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
The multipart helpers exist for the wizard's image attachment endpoint.
*/
package requestutil

import (
	"encoding/json"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/facilia/facilia/internal/platform/apperr"
	"github.com/facilia/facilia/internal/platform/ctxutil"
	"github.com/facilia/facilia/internal/platform/sec"
	"github.com/facilia/facilia/internal/platform/validate"
)

// maxUploadMemory is the in-memory threshold for multipart parsing; larger
// file parts are spooled to disk by net/http.
const maxUploadMemory = 8 << 20 // 8 MiB

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named URL parameter (UUID/Slug) from the request.
*/
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Query retrieves a named query-string parameter from the request.
*/
func Query(request *http.Request, name string) string {
	return request.URL.Query().Get(name)
}

/*
File parses the multipart form (if not yet parsed) and returns the named
file part.

Returns:
  - multipart.File: Opened file part (caller must Close)
  - *multipart.FileHeader: Size and original filename metadata
  - error: apperr.ValidationError if the part is missing or unreadable
*/
func File(request *http.Request, name string) (multipart.File, *multipart.FileHeader, error) {
	if request.MultipartForm == nil {
		if err := request.ParseMultipartForm(maxUploadMemory); err != nil {
			return nil, nil, apperr.ValidationError("Invalid multipart payload")
		}
	}

	file, header, err := request.FormFile(name)
	if err != nil {
		return nil, nil, apperr.ValidationError("Missing file part: " + name)
	}

	return file, header, nil
}

/*
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the user claims.

Returns:
  - *sec.AuthClaims: The authenticated user claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {

	// Get user claims
	claims := ctxutil.GetAuthUser(request.Context())

	// If the user is not authenticated, return an error
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return claims, nil
}
