package asset

import (
	"context"

	"github.com/facilia/facilia/internal/cafm"
)

// Source supplies asset records from the system of record.
type Source interface {
	// Get returns a single asset by id.
	Get(ctx context.Context, session cafm.Session, id string) (*Asset, error)

	// ListByLocation returns the assets at a location.
	// An empty locationID returns the tenant's unscoped list.
	ListByLocation(ctx context.Context, session cafm.Session, locationID string) ([]Asset, error)
}
