package models

// CaseStatus is the lifecycle state of a case.
type CaseStatus string

const (
	CaseStatusDraft          CaseStatus = "draft"
	CaseStatusInProgress     CaseStatus = "in_progress"
	CaseStatusPendingReview  CaseStatus = "pending_review"
	CaseStatusAwaitingAction CaseStatus = "awaiting_action"
	CaseStatusClosed         CaseStatus = "closed"
	CaseStatusEscalated      CaseStatus = "escalated"
)

// caseTransitions encodes the legal status transitions.
//
//	draft           -> in_progress (evidence intake begins)
//	draft           -> pending_review (analysis completed)
//	in_progress     -> pending_review (analysis completed)
//	pending_review  -> pending_review (re-analysis)
//	pending_review  -> awaiting_action (recommendation selected)
//	awaiting_action -> pending_review (re-analysis or review rejection)
//	awaiting_action -> closed (finalize; terminal)
//	awaiting_action -> escalated (escalate; terminal)
var caseTransitions = map[CaseStatus][]CaseStatus{
	CaseStatusDraft:          {CaseStatusInProgress, CaseStatusPendingReview},
	CaseStatusInProgress:     {CaseStatusPendingReview},
	CaseStatusPendingReview:  {CaseStatusPendingReview, CaseStatusAwaitingAction},
	CaseStatusAwaitingAction: {CaseStatusPendingReview, CaseStatusClosed, CaseStatusEscalated},
	CaseStatusClosed:         {},
	CaseStatusEscalated:      {},
}

// IsTerminal reports whether the status admits no further transitions.
// Terminal cases are immutable except for audit-log appends.
func (s CaseStatus) IsTerminal() bool {
	return s == CaseStatusClosed || s == CaseStatusEscalated
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s CaseStatus) CanTransitionTo(next CaseStatus) bool {
	for _, allowed := range caseTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status value.
func (s CaseStatus) Valid() bool {
	_, ok := caseTransitions[s]
	return ok
}
