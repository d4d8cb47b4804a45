// Package service exposes the case mutation and read operations consumed by
// the presentation layer. All mutations run under the store's per-case
// Execute callback, so the integrity and atomicity guarantees hold without
// any caller cooperation.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"caseflow/internal/audit"
	cfmetrics "caseflow/internal/casefile/metrics"
	"caseflow/internal/casefile/models"
	"caseflow/internal/casefile/store"
	"caseflow/internal/readiness"
	"caseflow/internal/workflow/ports"
	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/platform/sentinel"
	"caseflow/pkg/requestcontext"
)

// Service orchestrates the case lifecycle: intake, integrity-managed people
// and document mutations, recommendation selection, and the terminal
// transitions.
type Service struct {
	cases          store.Store
	extractor      ports.TextExtractor
	auditPublisher *audit.Publisher
	logger         *slog.Logger
	metrics        *cfmetrics.Metrics
}

// Option configures optional service collaborators.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher *audit.Publisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

func WithMetrics(m *cfmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTextExtractor wires the OCR collaborator used by image intake.
func WithTextExtractor(extractor ports.TextExtractor) Option {
	return func(s *Service) { s.extractor = extractor }
}

// New constructs the case service.
func New(cases store.Store, opts ...Option) (*Service, error) {
	if cases == nil {
		return nil, fmt.Errorf("case store is required")
	}
	s := &Service{cases: cases}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func wrapCaseErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "case not found")
	}
	return err
}

// ---------------------------------------------------------------------------
// Case lifecycle
// ---------------------------------------------------------------------------

// CreateCaseInput is the intake form for a new case.
type CreateCaseInput struct {
	Category     string
	IncidentDate time.Time
	Location     string
	Department   string
}

// CreateCase opens a draft case with a freshly assigned case number.
func (s *Service) CreateCase(ctx context.Context, input CreateCaseInput) (*models.Case, error) {
	now := requestcontext.Now(ctx)
	number, err := s.cases.NextCaseNumber(ctx, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign case number")
	}

	c, err := models.NewCase(id.NewCaseID(), number, strings.TrimSpace(input.Category), input.Location, input.Department, input.IncidentDate, now)
	if err != nil {
		return nil, err
	}
	if err := s.cases.Create(ctx, c); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create case")
	}

	if s.metrics != nil {
		s.metrics.CasesCreated.Inc()
	}
	s.emit(ctx, audit.Event{
		CaseID: c.ID,
		Action: audit.ActionCaseCreated,
		Detail: fmt.Sprintf("case %s (%s)", c.Number, c.Category),
	})
	return c, nil
}

// GetCase returns a case snapshot.
func (s *Service) GetCase(ctx context.Context, caseID id.CaseID) (*models.Case, error) {
	c, err := s.cases.Get(ctx, caseID)
	if err != nil {
		return nil, wrapCaseErr(err)
	}
	return c, nil
}

// ListCases returns all cases ordered by creation time.
func (s *Service) ListCases(ctx context.Context) ([]*models.Case, error) {
	return s.cases.List(ctx)
}

// Readiness evaluates every workflow gate for the case.
func (s *Service) Readiness(ctx context.Context, caseID id.CaseID) (readiness.Report, error) {
	c, err := s.cases.Get(ctx, caseID)
	if err != nil {
		return readiness.Report{}, wrapCaseErr(err)
	}
	return readiness.ForCase(c), nil
}

// AuditLog returns the case's audit stream in chronological order. Available
// for terminal cases too: the stream outlives the active workflow.
func (s *Service) AuditLog(ctx context.Context, caseID id.CaseID) ([]audit.Event, error) {
	if s.auditPublisher == nil {
		return nil, nil
	}
	return s.auditPublisher.List(ctx, caseID)
}

// DeleteCase removes the case and all owned people and documents. The audit
// stream is retained; a final deletion event is appended to it.
func (s *Service) DeleteCase(ctx context.Context, caseID id.CaseID) error {
	c, err := s.cases.Get(ctx, caseID)
	if err != nil {
		return wrapCaseErr(err)
	}
	if err := s.cases.Delete(ctx, caseID); err != nil {
		return wrapCaseErr(err)
	}
	if s.metrics != nil {
		s.metrics.CasesDeleted.Inc()
	}
	s.emit(ctx, audit.Event{
		CaseID: caseID,
		Action: audit.ActionCaseDeleted,
		Detail: fmt.Sprintf("case %s deleted", c.Number),
	})
	return nil
}

// ---------------------------------------------------------------------------
// Recommendation selection
// ---------------------------------------------------------------------------

// SelectRecommendation records the chosen decision-support option and
// advances the case to awaiting_action.
func (s *Service) SelectRecommendation(ctx context.Context, caseID id.CaseID, recID id.RecommendationID) (*models.Case, error) {
	now := requestcontext.Now(ctx)
	updated, err := s.cases.Execute(ctx, caseID, func(c *models.Case) error {
		return c.SelectRecommendation(recID, now)
	})
	if err != nil {
		return nil, wrapCaseErr(err)
	}
	s.emit(ctx, audit.Event{
		CaseID: caseID,
		Action: audit.ActionRecommendationSelected,
		Detail: fmt.Sprintf("recommendation %s", recID),
	})
	return updated, nil
}

// ---------------------------------------------------------------------------
// Terminal transitions
// ---------------------------------------------------------------------------

// Finalize closes the case. Without bypass, the case must carry a generated
// document approved by supervisor review. Bypass skips that requirement but
// is restricted to actors with the supervisor role.
func (s *Service) Finalize(ctx context.Context, caseID id.CaseID, bypass bool) (*models.Case, error) {
	if bypass && requestcontext.ActorRole(ctx) != requestcontext.RoleSupervisor {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "finalize bypass requires the supervisor role")
	}

	now := requestcontext.Now(ctx)
	updated, err := s.cases.Execute(ctx, caseID, func(c *models.Case) error {
		if err := c.CanFinalize(); err != nil {
			return err
		}
		if gate := readiness.CanFinalize(c, bypass); !gate.OK {
			return dErrors.New(dErrors.CodeReadinessNotMet, gate.Reason)
		}
		c.ApplyFinalize(now)
		return nil
	})
	if err != nil {
		return nil, wrapCaseErr(err)
	}

	if s.metrics != nil {
		s.metrics.CasesFinalized.Inc()
	}
	action := audit.ActionCaseFinalized
	if bypass {
		action = audit.ActionCaseFinalizedBypass
	}
	s.emit(ctx, audit.Event{
		CaseID: caseID,
		Action: action,
		Detail: fmt.Sprintf("case %s closed", updated.Number),
	})
	return updated, nil
}

// Escalate routes the case out of the active workflow. Irreversible.
func (s *Service) Escalate(ctx context.Context, caseID id.CaseID, reason string) (*models.Case, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "escalation reason is required")
	}

	now := requestcontext.Now(ctx)
	updated, err := s.cases.Execute(ctx, caseID, func(c *models.Case) error {
		if err := c.CanEscalate(); err != nil {
			return err
		}
		c.ApplyEscalate(now)
		return nil
	})
	if err != nil {
		return nil, wrapCaseErr(err)
	}

	if s.metrics != nil {
		s.metrics.CasesEscalated.Inc()
	}
	s.emit(ctx, audit.Event{
		CaseID: caseID,
		Action: audit.ActionCaseEscalated,
		Detail: reason,
	})
	return updated, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	if event.Actor == "" {
		event.Actor = requestcontext.Actor(ctx)
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", event.Action,
			"case_id", event.CaseID,
			"error", err,
		)
	}
}
