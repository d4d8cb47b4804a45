// Package store owns the canonical representation of cases. All other
// components read and write case state through it.
package store

import (
	"context"
	"time"

	"caseflow/internal/casefile/models"
	id "caseflow/pkg/domain"
)

// Store is the case entity store.
//
// Execute is the single mutation path: it runs fn against the case identified
// by caseID while holding that case's lock, so all mutations of one case are
// serialized while distinct cases proceed in parallel. fn receives a working
// copy; if fn returns an error nothing is committed and the case is left in
// its prior state. On success Execute returns a clone of the committed case.
//
// Stores return pkg/platform/sentinel errors; services translate them into
// coded domain errors.
type Store interface {
	Create(ctx context.Context, c *models.Case) error
	Get(ctx context.Context, caseID id.CaseID) (*models.Case, error)
	List(ctx context.Context) ([]*models.Case, error)
	Delete(ctx context.Context, caseID id.CaseID) error
	Execute(ctx context.Context, caseID id.CaseID, fn func(c *models.Case) error) (*models.Case, error)

	// NextCaseNumber reserves the next human-readable case number,
	// e.g. "WC-2026-0007". Numbers are unique per store and never reused.
	NextCaseNumber(ctx context.Context, now time.Time) (string, error)
}
