package category

import (
	"context"

	"github.com/facilia/facilia/internal/cafm"
)

// Source supplies the issue-category taxonomy from the system of record.
type Source interface {
	// Taxonomy returns the tenant's full category forest, parents with
	// their ordered children.
	Taxonomy(ctx context.Context, session cafm.Session) ([]Category, error)
}
