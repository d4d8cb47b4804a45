package audit

import (
	"context"

	id "caseflow/pkg/domain"
)

// Store persists the append-only audit stream.
type Store interface {
	Append(ctx context.Context, event Event) error

	// ListByCase returns the case's events in chronological order.
	ListByCase(ctx context.Context, caseID id.CaseID) ([]Event, error)
}
