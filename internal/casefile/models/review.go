package models

import (
	"strings"
	"time"

	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
)

// ReviewState is the supervisor-review sub-state for a generated document.
// It is tracked per review session, not a case status value.
type ReviewState string

const (
	ReviewStatePending          ReviewState = "pending"
	ReviewStateInReview         ReviewState = "in_review"
	ReviewStateChangesRequested ReviewState = "changes_requested"
	ReviewStateApproved         ReviewState = "approved"
	ReviewStateRejected         ReviewState = "rejected"
)

// Open reports whether the review still accepts comments, edits, and a verdict.
func (s ReviewState) Open() bool {
	return s == ReviewStatePending || s == ReviewStateInReview || s == ReviewStateChangesRequested
}

// ReviewComment is feedback attached to a section during review.
type ReviewComment struct {
	ID        id.ReviewID `json:"id"`
	SectionID string      `json:"section_id"`
	Text      string      `json:"text"`
	Resolved  bool        `json:"resolved"`
	Actor     string      `json:"actor"`
	At        time.Time   `json:"at"`
}

// ReviewEdit is one entry in the append-only edit ledger. The visible section
// body is replaced, but the ledger preserves full provenance.
type ReviewEdit struct {
	SectionID    string    `json:"section_id"`
	OriginalText string    `json:"original_text"`
	NewText      string    `json:"new_text"`
	Actor        string    `json:"actor"`
	At           time.Time `json:"at"`
}

// ReviewSession governs the approve/request-changes/reject cycle for a
// generated document.
//
// Invariants:
//   - Edits is append-only; entries are never rewritten or removed
//   - approved and rejected are terminal
//   - Rejection requires a non-empty reason
type ReviewSession struct {
	ID              id.ReviewID     `json:"id"`
	State           ReviewState     `json:"state"`
	Comments        []ReviewComment `json:"comments"`
	Edits           []ReviewEdit    `json:"edits"`
	OpenedAt        time.Time       `json:"opened_at"`
	ClosedAt        *time.Time      `json:"closed_at,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
}

// NewReviewSession opens a review in the pending state.
func NewReviewSession(reviewID id.ReviewID, now time.Time) *ReviewSession {
	return &ReviewSession{
		ID:       reviewID,
		State:    ReviewStatePending,
		OpenedAt: now,
	}
}

func (r *ReviewSession) ensureOpen() error {
	if !r.State.Open() {
		return dErrors.Newf(dErrors.CodeInvalidTransition, "review is already %s", r.State)
	}
	return nil
}

// CanStart checks the pending -> in_review transition.
func (r *ReviewSession) CanStart() error {
	if r.State != ReviewStatePending {
		return dErrors.Newf(dErrors.CodeInvalidTransition, "review cannot start from state %s", r.State)
	}
	return nil
}

// ApplyStart moves the review into in_review. Call CanStart first.
func (r *ReviewSession) ApplyStart() {
	r.State = ReviewStateInReview
}

// AddComment records an unresolved comment and moves the review to
// changes_requested. Case status is unaffected.
func (r *ReviewSession) AddComment(commentID id.ReviewID, sectionID, text, actor string, now time.Time) error {
	if err := r.ensureOpen(); err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "review comment text is required")
	}
	r.Comments = append(r.Comments, ReviewComment{
		ID:        commentID,
		SectionID: sectionID,
		Text:      text,
		Actor:     actor,
		At:        now,
	})
	r.State = ReviewStateChangesRequested
	return nil
}

// RecordEdit appends to the edit ledger. The caller replaces the visible
// section content separately; the ledger itself is never overwritten.
func (r *ReviewSession) RecordEdit(sectionID, originalText, newText, actor string, now time.Time) error {
	if err := r.ensureOpen(); err != nil {
		return err
	}
	r.Edits = append(r.Edits, ReviewEdit{
		SectionID:    sectionID,
		OriginalText: originalText,
		NewText:      newText,
		Actor:        actor,
		At:           now,
	})
	return nil
}

// CanApprove checks that the review is still open.
func (r *ReviewSession) CanApprove() error {
	return r.ensureOpen()
}

// ApplyApprove closes the review as approved. Call CanApprove first.
func (r *ReviewSession) ApplyApprove(now time.Time) {
	r.State = ReviewStateApproved
	r.ClosedAt = &now
}

// CanReject checks that the review is open and a reason was supplied.
func (r *ReviewSession) CanReject(reason string) error {
	if err := r.ensureOpen(); err != nil {
		return err
	}
	if strings.TrimSpace(reason) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "rejection reason is required")
	}
	return nil
}

// ApplyReject closes the review as rejected. Call CanReject first.
func (r *ReviewSession) ApplyReject(reason string, now time.Time) {
	r.State = ReviewStateRejected
	r.RejectionReason = strings.TrimSpace(reason)
	r.ClosedAt = &now
}
