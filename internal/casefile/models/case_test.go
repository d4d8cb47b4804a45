package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
)

var testTime = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestCase(t *testing.T) *Case {
	t.Helper()
	c, err := NewCase(id.NewCaseID(), "WC-2026-0001", "interpersonal-conflict", "Assembly Hall 2", "Production", testTime.AddDate(0, 0, -7), testTime)
	require.NoError(t, err)
	return c
}

func addPerson(t *testing.T, c *Case, name string, complainant bool) Person {
	t.Helper()
	p, err := NewPerson(id.NewPersonID(), name, "operator", "Production", "P-100", complainant, testTime)
	require.NoError(t, err)
	require.NoError(t, c.AttachPerson(*p, testTime))
	return *p
}

func addDocument(t *testing.T, c *Case, docType DocumentType, personID *id.PersonID, text string) Document {
	t.Helper()
	d, err := NewDocument(id.NewDocumentID(), docType, personID, text, "", "", "de", testTime)
	require.NoError(t, err)
	require.NoError(t, c.AttachDocument(*d, testTime))
	return *d
}

// readyCase returns a case with two complainants, one witness, and both
// complaint documents, ready for analysis.
func readyCase(t *testing.T) (*Case, Person, Person, Person) {
	t.Helper()
	c := newTestCase(t)
	first := addPerson(t, c, "A. Keller", true)
	second := addPerson(t, c, "B. Roth", true)
	witness := addPerson(t, c, "C. Weber", false)
	addDocument(t, c, DocumentTypeComplaintA, &first.ID, "Keller states that Roth shouted at him during the shift handover.")
	addDocument(t, c, DocumentTypeComplaintB, &second.ID, "Roth states that Keller blocked the machine on purpose.")
	return c, first, second, witness
}

func analyzedCase(t *testing.T) *Case {
	t.Helper()
	c, _, _, _ := readyCase(t)
	require.NoError(t, c.ApplyAnalysis(ComparisonResult{Summary: "initial"}, testTime))
	return c
}

func TestNewCase(t *testing.T) {
	t.Run("requires a case number", func(t *testing.T) {
		_, err := NewCase(id.NewCaseID(), "", "conflict", "", "", testTime, testTime)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("requires a category", func(t *testing.T) {
		_, err := NewCase(id.NewCaseID(), "WC-2026-0001", "", "", "", testTime, testTime)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("starts as draft", func(t *testing.T) {
		c := newTestCase(t)
		assert.Equal(t, CaseStatusDraft, c.Status)
		assert.Zero(t, c.AnalysisVersion)
	})
}

func TestAttachPerson(t *testing.T) {
	t.Run("first evidence moves draft to in_progress", func(t *testing.T) {
		c := newTestCase(t)
		addPerson(t, c, "A. Keller", true)
		assert.Equal(t, CaseStatusInProgress, c.Status)
	})

	t.Run("third complainant is rejected", func(t *testing.T) {
		c := newTestCase(t)
		addPerson(t, c, "A. Keller", true)
		addPerson(t, c, "B. Roth", true)

		p, err := NewPerson(id.NewPersonID(), "D. Dritte", "operator", "Production", "", true, testTime)
		require.NoError(t, err)
		err = c.AttachPerson(*p, testTime)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeIntegrityViolation))
		assert.Len(t, c.People, 2)
	})

	t.Run("witnesses are unlimited", func(t *testing.T) {
		c := newTestCase(t)
		for range 4 {
			addPerson(t, c, "Witness", false)
		}
		assert.Len(t, c.Witnesses(), 4)
	})
}

func TestComplainantOrder(t *testing.T) {
	c := newTestCase(t)
	addPerson(t, c, "Witness early", false)
	first := addPerson(t, c, "A. Keller", true)
	second := addPerson(t, c, "B. Roth", true)

	gotFirst, gotSecond := c.Complainants()
	require.NotNil(t, gotFirst)
	require.NotNil(t, gotSecond)
	assert.Equal(t, first.ID, gotFirst.ID)
	assert.Equal(t, second.ID, gotSecond.ID)
}

func TestAttachDocument(t *testing.T) {
	t.Run("complaint slots are singular", func(t *testing.T) {
		c := newTestCase(t)
		first := addPerson(t, c, "A. Keller", true)
		addDocument(t, c, DocumentTypeComplaintA, &first.ID, "first account")

		d, err := NewDocument(id.NewDocumentID(), DocumentTypeComplaintA, &first.ID, "second account", "", "", "", testTime)
		require.NoError(t, err)
		err = c.AttachDocument(*d, testTime)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeIntegrityViolation))
	})

	t.Run("witness statement requires a person reference", func(t *testing.T) {
		c := newTestCase(t)
		addPerson(t, c, "C. Weber", false)

		d, err := NewDocument(id.NewDocumentID(), DocumentTypeWitnessStatement, nil, "saw it happen", "", "", "", testTime)
		require.NoError(t, err)
		err = c.AttachDocument(*d, testTime)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeIntegrityViolation))
	})

	t.Run("complaint-a must come from the first complainant", func(t *testing.T) {
		c := newTestCase(t)
		addPerson(t, c, "A. Keller", true)
		second := addPerson(t, c, "B. Roth", true)

		d, err := NewDocument(id.NewDocumentID(), DocumentTypeComplaintA, &second.ID, "wrong slot", "", "", "", testTime)
		require.NoError(t, err)
		err = c.AttachDocument(*d, testTime)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeIntegrityViolation))
	})

	t.Run("complainant cannot author a witness statement", func(t *testing.T) {
		c := newTestCase(t)
		first := addPerson(t, c, "A. Keller", true)

		d, err := NewDocument(id.NewDocumentID(), DocumentTypeWitnessStatement, &first.ID, "my own account", "", "", "", testTime)
		require.NoError(t, err)
		err = c.AttachDocument(*d, testTime)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeIntegrityViolation))
	})

	t.Run("supporting documents accept any involved person", func(t *testing.T) {
		c := newTestCase(t)
		first := addPerson(t, c, "A. Keller", true)
		addDocument(t, c, DocumentTypePriorRecord, &first.ID, "prior warning 2024")
		assert.Len(t, c.DocumentsOfType(DocumentTypePriorRecord), 1)
	})
}

func TestEligiblePeople(t *testing.T) {
	c, first, second, witness := readyCase(t)

	eligibleA := c.EligiblePeople(DocumentTypeComplaintA)
	require.Len(t, eligibleA, 1)
	assert.Equal(t, first.ID, eligibleA[0].ID)

	eligibleB := c.EligiblePeople(DocumentTypeComplaintB)
	require.Len(t, eligibleB, 1)
	assert.Equal(t, second.ID, eligibleB[0].ID)

	eligibleW := c.EligiblePeople(DocumentTypeWitnessStatement)
	require.Len(t, eligibleW, 1)
	assert.Equal(t, witness.ID, eligibleW[0].ID)

	assert.Len(t, c.EligiblePeople(DocumentTypeEvidence), 3)
}

func TestRemovePersonCascade(t *testing.T) {
	t.Run("first complainant takes complaint-a documents", func(t *testing.T) {
		c, first, _, witness := readyCase(t)
		addDocument(t, c, DocumentTypeWitnessStatement, &witness.ID, "saw the handover")

		removed, err := c.RemovePerson(first.ID, testTime)
		require.NoError(t, err)
		assert.Len(t, removed, 1)
		assert.Empty(t, c.DocumentsOfType(DocumentTypeComplaintA))
		assert.Len(t, c.DocumentsOfType(DocumentTypeComplaintB), 1)
		assert.Len(t, c.DocumentsOfType(DocumentTypeWitnessStatement), 1)
		assert.Nil(t, c.PersonByID(first.ID))
	})

	t.Run("second complainant takes complaint-b documents", func(t *testing.T) {
		c, _, second, _ := readyCase(t)
		removed, err := c.RemovePerson(second.ID, testTime)
		require.NoError(t, err)
		assert.Len(t, removed, 1)
		assert.Empty(t, c.DocumentsOfType(DocumentTypeComplaintB))
		assert.Len(t, c.DocumentsOfType(DocumentTypeComplaintA), 1)
	})

	t.Run("witness takes only their statements", func(t *testing.T) {
		c, _, _, witness := readyCase(t)
		other := addPerson(t, c, "D. Vogel", false)
		addDocument(t, c, DocumentTypeWitnessStatement, &witness.ID, "statement one")
		addDocument(t, c, DocumentTypeWitnessStatement, &other.ID, "statement two")

		removed, err := c.RemovePerson(witness.ID, testTime)
		require.NoError(t, err)
		assert.Len(t, removed, 1)

		remaining := c.DocumentsOfType(DocumentTypeWitnessStatement)
		require.Len(t, remaining, 1)
		assert.Equal(t, other.ID, *remaining[0].PersonID)
	})

	t.Run("unknown person", func(t *testing.T) {
		c := newTestCase(t)
		_, err := c.RemovePerson(id.NewPersonID(), testTime)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestApplyAnalysisCascade(t *testing.T) {
	c := analyzedCase(t)
	require.Equal(t, uint64(1), c.AnalysisVersion)
	require.Equal(t, CaseStatusPendingReview, c.Status)
	require.True(t, c.AutoRunPolicyAlignment)
	require.True(t, c.AutoRunDecisionSupport)

	// Build up the full downstream chain.
	require.NoError(t, c.SetPolicyMatches([]PolicyMatch{{PolicySection: "WCP-1.1"}}, 1, testTime))
	recID := id.NewRecommendationID()
	require.NoError(t, c.SetRecommendations([]Recommendation{{ID: recID, Title: "Mediation", Severity: SeverityLow}}, 1, testTime))
	require.NoError(t, c.SelectRecommendation(recID, testTime))
	require.NoError(t, c.AttachGeneratedDocument(GeneratedDocument{
		RecommendationID: recID,
		Sections:         []DocumentSection{{ID: "measure", Heading: "Measure", Body: "Mediation."}},
	}, id.NewReviewID(), 1, testTime))
	require.Equal(t, CaseStatusAwaitingAction, c.Status)
	require.NotNil(t, c.Review)

	// Re-analysis invalidates the entire chain.
	require.NoError(t, c.ApplyAnalysis(ComparisonResult{Summary: "revised"}, testTime))

	assert.Equal(t, uint64(2), c.AnalysisVersion)
	assert.Equal(t, "revised", c.Comparison.Summary)
	assert.Equal(t, uint64(2), c.Comparison.Version)
	assert.Nil(t, c.PolicyMatches)
	assert.Nil(t, c.Recommendations)
	assert.Nil(t, c.SelectedRecommendationID)
	assert.Nil(t, c.GeneratedDocument)
	assert.Nil(t, c.Review)
	assert.Equal(t, CaseStatusPendingReview, c.Status)
	assert.True(t, c.AutoRunPolicyAlignment)
	assert.True(t, c.AutoRunDecisionSupport)
}

func TestAutoRunTriggersFireOnce(t *testing.T) {
	c := analyzedCase(t)
	assert.True(t, c.ConsumeAutoRunPolicyAlignment())
	assert.False(t, c.ConsumeAutoRunPolicyAlignment())
	assert.True(t, c.ConsumeAutoRunDecisionSupport())
	assert.False(t, c.ConsumeAutoRunDecisionSupport())
}

func TestStaleResultsRejected(t *testing.T) {
	c := analyzedCase(t)
	require.NoError(t, c.ApplyAnalysis(ComparisonResult{Summary: "second"}, testTime))
	require.Equal(t, uint64(2), c.AnalysisVersion)

	err := c.SetPolicyMatches([]PolicyMatch{{PolicySection: "WCP-1.1"}}, 1, testTime)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeStaleResult))
	assert.Nil(t, c.PolicyMatches)

	err = c.SetRecommendations([]Recommendation{{ID: id.NewRecommendationID(), Title: "x"}}, 1, testTime)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeStaleResult))
	assert.Nil(t, c.Recommendations)
}

func TestSelectRecommendation(t *testing.T) {
	t.Run("unknown recommendation", func(t *testing.T) {
		c := analyzedCase(t)
		err := c.SelectRecommendation(id.NewRecommendationID(), testTime)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("recommendation from an older analysis", func(t *testing.T) {
		c := analyzedCase(t)
		recID := id.NewRecommendationID()
		require.NoError(t, c.SetRecommendations([]Recommendation{{ID: recID, Title: "Mediation"}}, 1, testTime))
		// Sneak the stale version in directly; SetRecommendations would stamp it.
		c.Recommendations[0].Version = 0
		err := c.SelectRecommendation(recID, testTime)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeStaleResult))
	})

	t.Run("selection advances to awaiting_action", func(t *testing.T) {
		c := analyzedCase(t)
		recID := id.NewRecommendationID()
		require.NoError(t, c.SetRecommendations([]Recommendation{{ID: recID, Title: "Mediation"}}, 1, testTime))
		require.NoError(t, c.SelectRecommendation(recID, testTime))
		assert.Equal(t, CaseStatusAwaitingAction, c.Status)
		require.NotNil(t, c.SelectedRecommendation())
		assert.Equal(t, recID, c.SelectedRecommendation().ID)
	})
}

func TestAttachGeneratedDocument(t *testing.T) {
	c := analyzedCase(t)
	recID := id.NewRecommendationID()
	require.NoError(t, c.SetRecommendations([]Recommendation{{ID: recID, Title: "Mediation"}}, 1, testTime))
	require.NoError(t, c.SelectRecommendation(recID, testTime))

	t.Run("document must match the selection", func(t *testing.T) {
		err := c.AttachGeneratedDocument(GeneratedDocument{RecommendationID: id.NewRecommendationID()}, id.NewReviewID(), 1, testTime)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeIntegrityViolation))
	})

	t.Run("attachment opens a pending review", func(t *testing.T) {
		require.NoError(t, c.AttachGeneratedDocument(GeneratedDocument{RecommendationID: recID}, id.NewReviewID(), 1, testTime))
		require.NotNil(t, c.Review)
		assert.Equal(t, ReviewStatePending, c.Review.State)
		assert.Equal(t, uint64(1), c.GeneratedDocument.Version)
	})
}

func TestApplyReviewRejection(t *testing.T) {
	c := analyzedCase(t)
	recID := id.NewRecommendationID()
	require.NoError(t, c.SetRecommendations([]Recommendation{{ID: recID, Title: "Formal warning"}}, 1, testTime))
	require.NoError(t, c.SelectRecommendation(recID, testTime))
	require.NoError(t, c.AttachGeneratedDocument(GeneratedDocument{RecommendationID: recID}, id.NewReviewID(), 1, testTime))

	require.NoError(t, c.ApplyReviewRejection(testTime))

	assert.Nil(t, c.GeneratedDocument)
	assert.Nil(t, c.SelectedRecommendationID)
	assert.Equal(t, CaseStatusPendingReview, c.Status)
	// Recommendations survive so a different option can be selected.
	assert.Len(t, c.Recommendations, 1)
}

func TestTerminalImmutability(t *testing.T) {
	finalized := func(t *testing.T) *Case {
		c := analyzedCase(t)
		recID := id.NewRecommendationID()
		require.NoError(t, c.SetRecommendations([]Recommendation{{ID: recID, Title: "Mediation"}}, 1, testTime))
		require.NoError(t, c.SelectRecommendation(recID, testTime))
		require.NoError(t, c.CanFinalize())
		c.ApplyFinalize(testTime)
		return c
	}

	t.Run("closed case rejects every mutation", func(t *testing.T) {
		c := finalized(t)
		p, err := NewPerson(id.NewPersonID(), "Late", "", "", "", false, testTime)
		require.NoError(t, err)
		assert.True(t, dErrors.HasCode(c.AttachPerson(*p, testTime), dErrors.CodeCaseLocked))
		assert.True(t, dErrors.HasCode(c.ApplyAnalysis(ComparisonResult{}, testTime), dErrors.CodeCaseLocked))
		_, err = c.RemovePerson(id.NewPersonID(), testTime)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeCaseLocked))
	})

	t.Run("terminal transitions cannot repeat", func(t *testing.T) {
		c := finalized(t)
		assert.True(t, dErrors.HasCode(c.CanFinalize(), dErrors.CodeCaseLocked))
		assert.True(t, dErrors.HasCode(c.CanEscalate(), dErrors.CodeCaseLocked))
	})

	t.Run("finalize requires awaiting_action", func(t *testing.T) {
		c := analyzedCase(t)
		assert.True(t, dErrors.HasCode(c.CanFinalize(), dErrors.CodeInvalidTransition))
	})
}

func TestCloneIsDeep(t *testing.T) {
	c := analyzedCase(t)
	recID := id.NewRecommendationID()
	require.NoError(t, c.SetRecommendations([]Recommendation{{ID: recID, Title: "Mediation"}}, 1, testTime))
	require.NoError(t, c.SelectRecommendation(recID, testTime))
	require.NoError(t, c.AttachGeneratedDocument(GeneratedDocument{
		RecommendationID: recID,
		Sections:         []DocumentSection{{ID: "measure", Body: "original"}},
	}, id.NewReviewID(), 1, testTime))

	clone := c.Clone()
	clone.People[0].Name = "changed"
	clone.Comparison.Summary = "changed"
	clone.GeneratedDocument.Sections[0].Body = "changed"
	clone.Review.Comments = append(clone.Review.Comments, ReviewComment{Text: "new"})
	*clone.SelectedRecommendationID = id.NewRecommendationID()

	assert.NotEqual(t, "changed", c.People[0].Name)
	assert.NotEqual(t, "changed", c.Comparison.Summary)
	assert.Equal(t, "original", c.GeneratedDocument.Sections[0].Body)
	assert.Empty(t, c.Review.Comments)
	assert.Equal(t, recID, *c.SelectedRecommendationID)
}
