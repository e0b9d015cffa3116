package location

import (
	"context"

	"github.com/facilia/facilia/internal/cafm"
)

// Source supplies the facility location tree from the system of record.
type Source interface {
	// Tree returns the ordered forest of location roots for the session's tenant.
	Tree(ctx context.Context, session cafm.Session) ([]Node, error)
}
