// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

package servicerequest

import (
	"context"
	"log/slog"

	"github.com/facilia/facilia/internal/cafm"
)

// Service exposes service-request creation and reads. The wizard container
// is the only caller of Submit; Get also backs the public detail endpoint.
type Service struct {
	source Source
	logger *slog.Logger
}

// NewService constructs the service-request service.
func NewService(source Source, logger *slog.Logger) *Service {
	return &Service{source: source, logger: logger}
}

// Submit performs the single creating POST.
func (service *Service) Submit(ctx context.Context, session cafm.Session, submission Submission) (*ServiceRequest, error) {
	record, err := service.source.Submit(ctx, session, submission)
	if err != nil {
		return nil, err
	}

	service.logger.Info("service_request_created",
		slog.String("id", record.ID),
		slog.String("number", record.Number),
		slog.Int("images", len(submission.Images)),
	)
	return record, nil
}

// Get fetches a created record, uncached. The detail view follows directly
// after creation and must reflect the system of record, not a cache.
func (service *Service) Get(ctx context.Context, session cafm.Session, id string) (*ServiceRequest, error) {
	return service.source.Get(ctx, session, id)
}
