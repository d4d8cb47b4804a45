package audit

import (
	"time"

	"github.com/google/uuid"

	id "caseflow/pkg/domain"
)

// Event is emitted from domain logic to capture key workflow actions. Keep it
// transport-agnostic so stores and sinks can fan out. Events are append-only:
// never mutated, never deleted.
type Event struct {
	ID        uuid.UUID `json:"id"`
	CaseID    id.CaseID `json:"case_id"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Audit actions recorded by the workflow core.
const (
	ActionCaseCreated             = "case.created"
	ActionCaseDeleted             = "case.deleted"
	ActionPersonAdded             = "case.person_added"
	ActionPersonRemoved           = "case.person_removed"
	ActionDocumentAdded           = "case.document_added"
	ActionDocumentRemoved         = "case.document_removed"
	ActionAnalysisCompleted       = "case.analysis_completed"
	ActionPolicyAlignmentDone     = "case.policy_alignment_completed"
	ActionDecisionSupportDone     = "case.decision_support_completed"
	ActionRecommendationSelected  = "case.recommendation_selected"
	ActionActionDocumentGenerated = "case.action_document_generated"
	ActionReviewStarted           = "review.started"
	ActionReviewChangesRequested  = "review.changes_requested"
	ActionReviewEdited            = "review.edited"
	ActionReviewApproved          = "review.approved"
	ActionReviewRejected          = "review.rejected"
	ActionCaseFinalized           = "case.finalized"
	ActionCaseFinalizedBypass     = "case.finalized.bypass"
	ActionCaseEscalated           = "case.escalated"
)
