package servicerequest

import (
	"context"

	"github.com/facilia/facilia/internal/cafm"
)

// Source creates and reads service requests in the system of record.
type Source interface {
	// Submit performs the single multipart POST that creates the record.
	// It is called at most once per wizard draft attempt and never retried.
	Submit(ctx context.Context, session cafm.Session, submission Submission) (*ServiceRequest, error)

	// Get returns a created record by id, for the post-submit detail view.
	Get(ctx context.Context, session cafm.Session, id string) (*ServiceRequest, error)
}
