// Package readiness holds the pure predicates deciding whether each workflow
// phase may execute for a case.
//
// This is pure domain logic - no I/O, no side effects. Gates are advisory at
// the presentation boundary but authoritative at the service boundary: every
// transition whose guard depends on a gate re-checks it inside the store's
// Execute callback before committing.
package readiness

import (
	"fmt"

	"caseflow/internal/casefile/models"
)

// Result is a gate verdict. Reason is populated only when the gate is closed.
type Result struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

func open() Result {
	return Result{OK: true}
}

func closed(format string, args ...any) Result {
	return Result{Reason: fmt.Sprintf(format, args...)}
}

// CanRunAnalysis requires exactly one complaint-a and one complaint-b
// document, both with usable text, and at least two complainant records.
func CanRunAnalysis(c *models.Case) Result {
	first, second := c.Complainants()
	if first == nil || second == nil {
		return closed("analysis requires two complainants")
	}

	a := c.DocumentsOfType(models.DocumentTypeComplaintA)
	b := c.DocumentsOfType(models.DocumentTypeComplaintB)
	if len(a) != 1 {
		return closed("analysis requires exactly one complaint-a document, found %d", len(a))
	}
	if len(b) != 1 {
		return closed("analysis requires exactly one complaint-b document, found %d", len(b))
	}
	if !a[0].HasText() {
		return closed("complaint-a document has no extracted text")
	}
	if !b[0].HasText() {
		return closed("complaint-b document has no extracted text")
	}
	return open()
}

// CanRunPolicyAlignment requires a current comparison result.
func CanRunPolicyAlignment(c *models.Case) Result {
	if c.Comparison == nil {
		return closed("policy alignment requires a completed analysis")
	}
	return open()
}

// CanRunDecisionSupport requires a current comparison result.
func CanRunDecisionSupport(c *models.Case) Result {
	if c.Comparison == nil {
		return closed("decision support requires a completed analysis")
	}
	return open()
}

// CanGenerateAction requires a selected recommendation.
func CanGenerateAction(c *models.Case) Result {
	if c.SelectedRecommendationID == nil {
		return closed("action generation requires a selected recommendation")
	}
	return open()
}

// CanFinalize requires status awaiting_action and either a generated document
// that passed supervisor review, or an authorized bypass.
func CanFinalize(c *models.Case, bypass bool) Result {
	if c.Status != models.CaseStatusAwaitingAction {
		return closed("finalization requires status %s, case is %s", models.CaseStatusAwaitingAction, c.Status)
	}
	if bypass {
		return open()
	}
	if c.GeneratedDocument == nil {
		return closed("finalization requires a generated action document")
	}
	if !c.GeneratedDocument.Approved {
		return closed("generated document has not been approved by supervisor review")
	}
	return open()
}

// Report is the full gate evaluation for a case, exposed through the read API.
type Report struct {
	Analysis        Result `json:"analysis"`
	PolicyAlignment Result `json:"policy_alignment"`
	DecisionSupport Result `json:"decision_support"`
	ActionDocument  Result `json:"action_document"`
	Finalize        Result `json:"finalize"`
}

// ForCase evaluates every gate against a case snapshot. The finalize gate is
// reported without bypass.
func ForCase(c *models.Case) Report {
	return Report{
		Analysis:        CanRunAnalysis(c),
		PolicyAlignment: CanRunPolicyAlignment(c),
		DecisionSupport: CanRunDecisionSupport(c),
		ActionDocument:  CanGenerateAction(c),
		Finalize:        CanFinalize(c, false),
	}
}
