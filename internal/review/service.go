// Package review implements the supervisor review cycle for generated action
// documents: approve, request changes, or reject, with an append-only edit
// ledger preserving full provenance of every change.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"caseflow/internal/audit"
	"caseflow/internal/casefile/models"
	"caseflow/internal/casefile/store"
	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/platform/sentinel"
	"caseflow/pkg/requestcontext"
)

// Service operates on the review session opened when an action document is
// generated. Every transition appends one audit event.
type Service struct {
	cases          store.Store
	auditPublisher *audit.Publisher
	logger         *slog.Logger
}

// Option configures optional service collaborators.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher *audit.Publisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

// New constructs the review service.
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

// requireReview guards every operation: a review session exists only while a
// generated document is on the case.
func requireReview(c *models.Case) error {
	if err := c.EnsureMutable(); err != nil {
		return err
	}
	if c.GeneratedDocument == nil || c.Review == nil {
		return dErrors.New(dErrors.CodeReadinessNotMet, "case has no generated document under review")
	}
	return nil
}

// StartReview moves the session from pending to in_review.
func (s *Service) StartReview(ctx context.Context, caseID id.CaseID) (*models.Case, error) {
	updated, err := s.cases.Execute(ctx, caseID, func(c *models.Case) error {
		if err := requireReview(c); err != nil {
			return err
		}
		if err := c.Review.CanStart(); err != nil {
			return err
		}
		c.Review.ApplyStart()
		return nil
	})
	if err != nil {
		return nil, wrapCaseErr(err)
	}
	s.emit(ctx, audit.Event{
		CaseID: caseID,
		Action: audit.ActionReviewStarted,
		Detail: fmt.Sprintf("review %s", updated.Review.ID),
	})
	return updated, nil
}

// AddComment attaches an unresolved comment and moves the session to
// changes_requested. The case status is unaffected.
func (s *Service) AddComment(ctx context.Context, caseID id.CaseID, sectionID, text string) (*models.Case, error) {
	now := requestcontext.Now(ctx)
	actor := requestcontext.Actor(ctx)
	updated, err := s.cases.Execute(ctx, caseID, func(c *models.Case) error {
		if err := requireReview(c); err != nil {
			return err
		}
		if sectionID != "" && c.GeneratedDocument.Section(sectionID) == nil {
			return dErrors.Newf(dErrors.CodeInvalidInput, "document has no section %q", sectionID)
		}
		return c.Review.AddComment(id.NewReviewID(), sectionID, text, actor, now)
	})
	if err != nil {
		return nil, wrapCaseErr(err)
	}
	s.emit(ctx, audit.Event{
		CaseID: caseID,
		Action: audit.ActionReviewChangesRequested,
		Detail: fmt.Sprintf("comment on section %q", sectionID),
	})
	return updated, nil
}

// ApplyEdit replaces a section's visible content and appends the change to
// the edit ledger. The ledger is never overwritten: provenance survives even
// though the section body is replaced.
func (s *Service) ApplyEdit(ctx context.Context, caseID id.CaseID, sectionID, newText string) (*models.Case, error) {
	now := requestcontext.Now(ctx)
	actor := requestcontext.Actor(ctx)
	updated, err := s.cases.Execute(ctx, caseID, func(c *models.Case) error {
		if err := requireReview(c); err != nil {
			return err
		}
		section := c.GeneratedDocument.Section(sectionID)
		if section == nil {
			return dErrors.Newf(dErrors.CodeInvalidInput, "document has no section %q", sectionID)
		}
		if err := c.Review.RecordEdit(sectionID, section.Body, newText, actor, now); err != nil {
			return err
		}
		section.Body = newText
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, wrapCaseErr(err)
	}
	s.emit(ctx, audit.Event{
		CaseID: caseID,
		Action: audit.ActionReviewEdited,
		Detail: fmt.Sprintf("section %q edited", sectionID),
	})
	return updated, nil
}

// Approve closes the review as approved and marks the generated document
// approved, making the case eligible for finalization.
func (s *Service) Approve(ctx context.Context, caseID id.CaseID) (*models.Case, error) {
	now := requestcontext.Now(ctx)
	updated, err := s.cases.Execute(ctx, caseID, func(c *models.Case) error {
		if err := requireReview(c); err != nil {
			return err
		}
		if err := c.Review.CanApprove(); err != nil {
			return err
		}
		c.Review.ApplyApprove(now)
		c.GeneratedDocument.Approved = true
		approvedAt := now
		c.GeneratedDocument.ApprovedAt = &approvedAt
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, wrapCaseErr(err)
	}
	s.emit(ctx, audit.Event{
		CaseID: caseID,
		Action: audit.ActionReviewApproved,
		Detail: fmt.Sprintf("%d edits applied during review", len(updated.Review.Edits)),
	})
	return updated, nil
}

// Reject closes the review as rejected, clears the generated document and
// the selected recommendation, and returns the workflow to decision support.
// The rejected session is retained on the case for provenance.
func (s *Service) Reject(ctx context.Context, caseID id.CaseID, reason string) (*models.Case, error) {
	now := requestcontext.Now(ctx)
	updated, err := s.cases.Execute(ctx, caseID, func(c *models.Case) error {
		if err := requireReview(c); err != nil {
			return err
		}
		if err := c.Review.CanReject(reason); err != nil {
			return err
		}
		c.Review.ApplyReject(reason, now)
		return c.ApplyReviewRejection(now)
	})
	if err != nil {
		return nil, wrapCaseErr(err)
	}
	s.emit(ctx, audit.Event{
		CaseID: caseID,
		Action: audit.ActionReviewRejected,
		Detail: reason,
	})
	return updated, nil
}

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
