// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

package servicerequest

import (
	"context"
	"net/url"
	"strings"

	"github.com/facilia/facilia/internal/cafm"
	"github.com/facilia/facilia/internal/platform/apperr"
	"github.com/facilia/facilia/pkg/pointer"
)

// CAFMSource implements [Source] against the upstream CAFM REST API.
type CAFMSource struct {
	client *cafm.Client
}

// NewCAFMSource wraps the shared upstream client.
func NewCAFMSource(client *cafm.Client) *CAFMSource {
	return &CAFMSource{client: client}
}

// Submit posts the submission as one multipart request.
//
// Field shaping rules:
//   - asset_id appears only when an asset was actually chosen;
//   - description appears only when non-empty after trimming, so a
//     whitespace-only note produces no field at all;
//   - images keep the user's ordering.
func (source *CAFMSource) Submit(ctx context.Context, session cafm.Session, submission Submission) (*ServiceRequest, error) {
	fields := map[string]string{
		"location_id": submission.LocationID,
		"category_id": submission.CategoryID,
	}
	if assetID := pointer.Val(submission.AssetID); assetID != "" {
		fields["asset_id"] = assetID
	}
	if description := strings.TrimSpace(submission.Description); description != "" {
		fields["description"] = description
	}

	files := make([]cafm.FilePart, 0, len(submission.Images))
	for _, image := range submission.Images {
		files = append(files, cafm.FilePart{
			Field:    "images",
			Filename: image.Filename,
			Reader:   image.Reader,
		})
	}

	var record ServiceRequest
	if err := source.client.PostMultipart(ctx, session, "/api/v1/service-requests", fields, files, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Get returns a single service request by id.
func (source *CAFMSource) Get(ctx context.Context, session cafm.Session, id string) (*ServiceRequest, error) {
	var record ServiceRequest
	if err := source.client.GetJSON(ctx, session, "/api/v1/service-requests/"+url.PathEscape(id), &record); err != nil {
		if ae := apperr.As(err); ae != nil && ae.Code == "NOT_FOUND" {
			return nil, apperr.NotFound("Service request")
		}
		return nil, err
	}
	return &record, nil
}
