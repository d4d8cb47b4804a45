package models

import (
	"time"

	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
)

// Case is the root aggregate for one workplace conflict under investigation.
//
// Invariants:
//   - Number is immutable once assigned
//   - Status transitions follow the table in status.go
//   - A terminal case is immutable to all mutating operations except
//     audit-log appends
//   - At most two complainants; at most one complaint-a and one complaint-b
//     document; witness statements reference an existing witness
//   - Derived artifacts carry the AnalysisVersion token they were produced
//     under; the invalidation cascade clears the whole chain when the token
//     advances
//
// All mutations of a given case are serialized by the store's Execute
// callback; the methods here assume the caller holds the case lock.
type Case struct {
	ID           id.CaseID  `json:"id"`
	Number       string     `json:"number"`
	Category     string     `json:"category"`
	IncidentDate time.Time  `json:"incident_date"`
	Location     string     `json:"location"`
	Department   string     `json:"department"`
	Status       CaseStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	People    []Person   `json:"people"`
	Documents []Document `json:"documents"`

	Comparison                *ComparisonResult    `json:"comparison,omitempty"`
	PolicyMatches             []PolicyMatch        `json:"policy_matches,omitempty"`
	Recommendations           []Recommendation     `json:"recommendations,omitempty"`
	SelectedRecommendationID  *id.RecommendationID `json:"selected_recommendation_id,omitempty"`
	GeneratedDocument         *GeneratedDocument   `json:"generated_document,omitempty"`
	Review                    *ReviewSession       `json:"review,omitempty"`

	// AnalysisVersion is the monotonic token incremented by each successful
	// (re-)analysis. Downstream results produced against an older token are
	// stale and must be discarded.
	AnalysisVersion uint64 `json:"analysis_version"`

	// One-shot triggers set by the invalidation cascade and cleared by the
	// component that consumes them.
	AutoRunPolicyAlignment bool `json:"auto_run_policy_alignment"`
	AutoRunDecisionSupport bool `json:"auto_run_decision_support"`
}

// NewCase constructs a draft case. The case number is assigned by the caller
// (store sequence) and never changes afterwards.
func NewCase(caseID id.CaseID, number, category, location, department string, incidentDate, now time.Time) (*Case, error) {
	if number == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "case number is required")
	}
	if category == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "case category is required")
	}
	return &Case{
		ID:           caseID,
		Number:       number,
		Category:     category,
		IncidentDate: incidentDate,
		Location:     location,
		Department:   department,
		Status:       CaseStatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// EnsureMutable rejects mutation of a terminal-status case.
func (c *Case) EnsureMutable() error {
	if c.Status.IsTerminal() {
		return dErrors.Newf(dErrors.CodeCaseLocked, "case %s is %s and cannot be modified", c.Number, c.Status)
	}
	return nil
}

// ---------------------------------------------------------------------------
// People
// ---------------------------------------------------------------------------

// Complainants returns the first and second complainant by insertion order.
// Either may be nil.
func (c *Case) Complainants() (first, second *Person) {
	for i := range c.People {
		if !c.People[i].Complainant {
			continue
		}
		if first == nil {
			first = &c.People[i]
		} else if second == nil {
			second = &c.People[i]
			return
		}
	}
	return
}

// PersonByID returns the person record, or nil.
func (c *Case) PersonByID(personID id.PersonID) *Person {
	for i := range c.People {
		if c.People[i].ID == personID {
			return &c.People[i]
		}
	}
	return nil
}

// Witnesses returns all non-complainant people in insertion order.
func (c *Case) Witnesses() []Person {
	var out []Person
	for _, p := range c.People {
		if !p.Complainant {
			out = append(out, p)
		}
	}
	return out
}

// AttachPerson appends a person, enforcing the two-complainant limit.
func (c *Case) AttachPerson(p Person, now time.Time) error {
	if err := c.EnsureMutable(); err != nil {
		return err
	}
	if p.Complainant {
		if _, second := c.Complainants(); second != nil {
			return dErrors.New(dErrors.CodeIntegrityViolation, "case already has two complainants")
		}
	}
	c.People = append(c.People, p)
	c.UpdatedAt = now
	if c.Status == CaseStatusDraft {
		c.Status = CaseStatusInProgress
	}
	return nil
}

// RemovePerson deletes a person and cascades deletion of dependent documents:
// the first complainant takes all complaint-a documents with them, the second
// all complaint-b documents, and a witness all witness statements referencing
// them. Returns the IDs of the removed documents. No document references a
// missing person once this returns.
func (c *Case) RemovePerson(personID id.PersonID, now time.Time) ([]id.DocumentID, error) {
	if err := c.EnsureMutable(); err != nil {
		return nil, err
	}
	p := c.PersonByID(personID)
	if p == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "person not found on case")
	}

	var doomed func(d *Document) bool
	if p.Complainant {
		first, _ := c.Complainants()
		slot := DocumentTypeComplaintB
		if first != nil && first.ID == personID {
			slot = DocumentTypeComplaintA
		}
		doomed = func(d *Document) bool { return d.Type == slot }
	} else {
		doomed = func(d *Document) bool {
			return d.Type == DocumentTypeWitnessStatement && d.PersonID != nil && *d.PersonID == personID
		}
	}

	var removed []id.DocumentID
	kept := c.Documents[:0]
	for i := range c.Documents {
		if doomed(&c.Documents[i]) {
			removed = append(removed, c.Documents[i].ID)
			continue
		}
		kept = append(kept, c.Documents[i])
	}
	c.Documents = kept

	for i := range c.People {
		if c.People[i].ID == personID {
			c.People = append(c.People[:i], c.People[i+1:]...)
			break
		}
	}
	c.UpdatedAt = now
	return removed, nil
}

// ---------------------------------------------------------------------------
// Documents
// ---------------------------------------------------------------------------

// DocumentByID returns the document record, or nil.
func (c *Case) DocumentByID(documentID id.DocumentID) *Document {
	for i := range c.Documents {
		if c.Documents[i].ID == documentID {
			return &c.Documents[i]
		}
	}
	return nil
}

// DocumentsOfType returns all documents of the given type in insertion order.
func (c *Case) DocumentsOfType(t DocumentType) []Document {
	var out []Document
	for _, d := range c.Documents {
		if d.Type == t {
			out = append(out, d)
		}
	}
	return out
}

// EligiblePeople returns who a document of the given type may be attributed
// to: complaint-a only the first complainant, complaint-b only the second,
// witness statements only witnesses, anything else any involved person.
func (c *Case) EligiblePeople(t DocumentType) []Person {
	first, second := c.Complainants()
	switch t {
	case DocumentTypeComplaintA:
		if first == nil {
			return nil
		}
		return []Person{*first}
	case DocumentTypeComplaintB:
		if second == nil {
			return nil
		}
		return []Person{*second}
	case DocumentTypeWitnessStatement:
		return c.Witnesses()
	default:
		return append([]Person{}, c.People...)
	}
}

// AttachDocument appends a document, enforcing the singular complaint slots,
// witness-reference integrity, and person-attribution eligibility.
func (c *Case) AttachDocument(d Document, now time.Time) error {
	if err := c.EnsureMutable(); err != nil {
		return err
	}
	if d.Type.IsComplaint() && len(c.DocumentsOfType(d.Type)) > 0 {
		return dErrors.Newf(dErrors.CodeIntegrityViolation, "case already has a %s document", d.Type)
	}
	if d.Type == DocumentTypeWitnessStatement {
		if d.PersonID == nil {
			return dErrors.New(dErrors.CodeIntegrityViolation, "witness statement must reference a witness")
		}
	}
	if d.PersonID != nil {
		eligible := false
		for _, p := range c.EligiblePeople(d.Type) {
			if p.ID == *d.PersonID {
				eligible = true
				break
			}
		}
		if !eligible {
			return dErrors.Newf(dErrors.CodeIntegrityViolation, "person is not eligible to submit a %s document", d.Type)
		}
	}
	c.Documents = append(c.Documents, d)
	c.UpdatedAt = now
	if c.Status == CaseStatusDraft {
		c.Status = CaseStatusInProgress
	}
	return nil
}

// RemoveDocument deletes a single document.
func (c *Case) RemoveDocument(documentID id.DocumentID, now time.Time) error {
	if err := c.EnsureMutable(); err != nil {
		return err
	}
	for i := range c.Documents {
		if c.Documents[i].ID == documentID {
			c.Documents = append(c.Documents[:i], c.Documents[i+1:]...)
			c.UpdatedAt = now
			return nil
		}
	}
	return dErrors.New(dErrors.CodeNotFound, "document not found on case")
}

// ---------------------------------------------------------------------------
// Analysis cascade and derived artifacts
// ---------------------------------------------------------------------------

// ApplyAnalysis applies the invalidation cascade for a freshly completed
// analysis, atomically with respect to the case lock:
//
//  1. replace the comparison result wholesale
//  2. clear policy matches
//  3. clear recommendations, the selection, the generated document, and any
//     open review tied to the prior recommendation
//  4. move status to pending_review
//  5. increment the analysis-version token
//  6. arm both one-shot auto-run triggers
//
// The caller verifies token freshness before invoking this; a stale result
// must never reach here.
func (c *Case) ApplyAnalysis(result ComparisonResult, now time.Time) error {
	if err := c.EnsureMutable(); err != nil {
		return err
	}
	if !c.Status.CanTransitionTo(CaseStatusPendingReview) {
		return dErrors.Newf(dErrors.CodeInvalidTransition, "cannot enter review from status %s", c.Status)
	}

	c.AnalysisVersion++
	result.Version = c.AnalysisVersion
	c.Comparison = &result

	c.PolicyMatches = nil
	c.Recommendations = nil
	c.SelectedRecommendationID = nil
	c.GeneratedDocument = nil
	c.Review = nil

	c.Status = CaseStatusPendingReview
	c.AutoRunPolicyAlignment = true
	c.AutoRunDecisionSupport = true
	c.UpdatedAt = now
	return nil
}

// ConsumeAutoRunPolicyAlignment clears and returns the policy-alignment
// trigger. Each trigger fires at most once.
func (c *Case) ConsumeAutoRunPolicyAlignment() bool {
	was := c.AutoRunPolicyAlignment
	c.AutoRunPolicyAlignment = false
	return was
}

// ConsumeAutoRunDecisionSupport clears and returns the decision-support
// trigger.
func (c *Case) ConsumeAutoRunDecisionSupport() bool {
	was := c.AutoRunDecisionSupport
	c.AutoRunDecisionSupport = false
	return was
}

// SetPolicyMatches stores policy matches produced against the given token.
// A token behind the current analysis version means the result is stale and
// must be discarded.
func (c *Case) SetPolicyMatches(matches []PolicyMatch, token uint64, now time.Time) error {
	if err := c.EnsureMutable(); err != nil {
		return err
	}
	if token != c.AnalysisVersion {
		return dErrors.Newf(dErrors.CodeStaleResult, "policy matches for version %d, case is at %d", token, c.AnalysisVersion)
	}
	for i := range matches {
		matches[i].Version = token
	}
	c.PolicyMatches = matches
	c.UpdatedAt = now
	return nil
}

// SetRecommendations stores decision-support options produced against the
// given token, discarding stale results by the same rule as SetPolicyMatches.
func (c *Case) SetRecommendations(recs []Recommendation, token uint64, now time.Time) error {
	if err := c.EnsureMutable(); err != nil {
		return err
	}
	if token != c.AnalysisVersion {
		return dErrors.Newf(dErrors.CodeStaleResult, "recommendations for version %d, case is at %d", token, c.AnalysisVersion)
	}
	for i := range recs {
		recs[i].Version = token
	}
	c.Recommendations = recs
	c.UpdatedAt = now
	return nil
}

// SelectRecommendation records the chosen option and advances the case to
// awaiting_action.
func (c *Case) SelectRecommendation(recID id.RecommendationID, now time.Time) error {
	if err := c.EnsureMutable(); err != nil {
		return err
	}
	var found *Recommendation
	for i := range c.Recommendations {
		if c.Recommendations[i].ID == recID {
			found = &c.Recommendations[i]
			break
		}
	}
	if found == nil {
		return dErrors.New(dErrors.CodeNotFound, "recommendation not found on case")
	}
	if found.Version != c.AnalysisVersion {
		return dErrors.New(dErrors.CodeStaleResult, "recommendation was produced against an older analysis")
	}
	if !c.Status.CanTransitionTo(CaseStatusAwaitingAction) {
		return dErrors.Newf(dErrors.CodeInvalidTransition, "cannot select a recommendation from status %s", c.Status)
	}
	rid := recID
	c.SelectedRecommendationID = &rid
	c.Status = CaseStatusAwaitingAction
	c.UpdatedAt = now
	return nil
}

// SelectedRecommendation returns the selected option, or nil.
func (c *Case) SelectedRecommendation() *Recommendation {
	if c.SelectedRecommendationID == nil {
		return nil
	}
	for i := range c.Recommendations {
		if c.Recommendations[i].ID == *c.SelectedRecommendationID {
			return &c.Recommendations[i]
		}
	}
	return nil
}

// AttachGeneratedDocument stores the rendered action document and opens a
// supervisor review session in the pending state.
func (c *Case) AttachGeneratedDocument(doc GeneratedDocument, reviewID id.ReviewID, token uint64, now time.Time) error {
	if err := c.EnsureMutable(); err != nil {
		return err
	}
	if token != c.AnalysisVersion {
		return dErrors.Newf(dErrors.CodeStaleResult, "generated document for version %d, case is at %d", token, c.AnalysisVersion)
	}
	if c.SelectedRecommendationID == nil || doc.RecommendationID != *c.SelectedRecommendationID {
		return dErrors.New(dErrors.CodeIntegrityViolation, "generated document must match the selected recommendation")
	}
	doc.Version = token
	c.GeneratedDocument = &doc
	c.Review = NewReviewSession(reviewID, now)
	c.UpdatedAt = now
	return nil
}

// ApplyReviewRejection clears the generated document and the selected
// recommendation, returning the workflow to decision support. The rejected
// review session is retained for provenance.
func (c *Case) ApplyReviewRejection(now time.Time) error {
	if !c.Status.CanTransitionTo(CaseStatusPendingReview) {
		return dErrors.Newf(dErrors.CodeInvalidTransition, "cannot reopen decision support from status %s", c.Status)
	}
	c.GeneratedDocument = nil
	c.SelectedRecommendationID = nil
	c.Status = CaseStatusPendingReview
	c.UpdatedAt = now
	return nil
}

// ---------------------------------------------------------------------------
// Terminal transitions
// ---------------------------------------------------------------------------

// CanFinalize checks the status side of finalization. The full readiness
// predicate (approved document or authorized bypass) lives in the readiness
// package.
func (c *Case) CanFinalize() error {
	if c.Status.IsTerminal() {
		return dErrors.Newf(dErrors.CodeCaseLocked, "case %s is already %s", c.Number, c.Status)
	}
	if !c.Status.CanTransitionTo(CaseStatusClosed) {
		return dErrors.Newf(dErrors.CodeInvalidTransition, "cannot finalize from status %s", c.Status)
	}
	return nil
}

// ApplyFinalize closes the case. Irreversible.
func (c *Case) ApplyFinalize(now time.Time) {
	c.Status = CaseStatusClosed
	c.UpdatedAt = now
}

// CanEscalate checks the status side of escalation.
func (c *Case) CanEscalate() error {
	if c.Status.IsTerminal() {
		return dErrors.Newf(dErrors.CodeCaseLocked, "case %s is already %s", c.Number, c.Status)
	}
	if !c.Status.CanTransitionTo(CaseStatusEscalated) {
		return dErrors.Newf(dErrors.CodeInvalidTransition, "cannot escalate from status %s", c.Status)
	}
	return nil
}

// ApplyEscalate routes the case out of the active workflow. Irreversible.
func (c *Case) ApplyEscalate(now time.Time) {
	c.Status = CaseStatusEscalated
	c.UpdatedAt = now
}

// ---------------------------------------------------------------------------
// Copying
// ---------------------------------------------------------------------------

// Clone returns a deep copy. Stores hand out clones so readers never alias
// the canonical record.
func (c *Case) Clone() *Case {
	out := *c
	out.People = append([]Person(nil), c.People...)
	out.Documents = append([]Document(nil), c.Documents...)
	out.PolicyMatches = append([]PolicyMatch(nil), c.PolicyMatches...)
	out.Recommendations = append([]Recommendation(nil), c.Recommendations...)
	if c.SelectedRecommendationID != nil {
		rid := *c.SelectedRecommendationID
		out.SelectedRecommendationID = &rid
	}
	if c.Comparison != nil {
		cmp := *c.Comparison
		cmp.Agreements = append([]string(nil), c.Comparison.Agreements...)
		cmp.Contradictions = append([]string(nil), c.Comparison.Contradictions...)
		cmp.Ambiguities = append([]string(nil), c.Comparison.Ambiguities...)
		out.Comparison = &cmp
	}
	if c.GeneratedDocument != nil {
		doc := *c.GeneratedDocument
		doc.Sections = append([]DocumentSection(nil), c.GeneratedDocument.Sections...)
		if c.GeneratedDocument.ApprovedAt != nil {
			at := *c.GeneratedDocument.ApprovedAt
			doc.ApprovedAt = &at
		}
		out.GeneratedDocument = &doc
	}
	if c.Review != nil {
		rev := *c.Review
		rev.Comments = append([]ReviewComment(nil), c.Review.Comments...)
		rev.Edits = append([]ReviewEdit(nil), c.Review.Edits...)
		if c.Review.ClosedAt != nil {
			at := *c.Review.ClosedAt
			rev.ClosedAt = &at
		}
		out.Review = &rev
	}
	return &out
}
