package review

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"caseflow/internal/audit"
	"caseflow/internal/casefile/models"
	"caseflow/internal/casefile/store"
	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/requestcontext"
)

type ReviewSuite struct {
	suite.Suite
	store      *store.InMemory
	auditStore *audit.InMemoryStore
	service    *Service
	ctx        context.Context
	now        time.Time
}

func TestReviewSuite(t *testing.T) {
	suite.Run(t, new(ReviewSuite))
}

func (s *ReviewSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.auditStore = audit.NewInMemoryStore()
	s.now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.ctx = requestcontext.WithActor(s.ctx, "lmueller", requestcontext.RoleSupervisor)

	svc, err := New(s.store, WithAuditPublisher(audit.NewPublisher(s.auditStore)))
	s.Require().NoError(err)
	s.service = svc
}

// caseUnderReview seeds a case carrying a generated document with a pending
// review session.
func (s *ReviewSuite) caseUnderReview() *models.Case {
	c, err := models.NewCase(id.NewCaseID(), "WC-2026-0001", "interpersonal-conflict", "", "", s.now, s.now)
	s.Require().NoError(err)
	c.Status = models.CaseStatusInProgress
	s.Require().NoError(c.ApplyAnalysis(models.ComparisonResult{Summary: "done"}, s.now))

	recID := id.NewRecommendationID()
	s.Require().NoError(c.SetRecommendations([]models.Recommendation{{ID: recID, Title: "Written counseling"}}, 1, s.now))
	s.Require().NoError(c.SelectRecommendation(recID, s.now))
	s.Require().NoError(c.AttachGeneratedDocument(models.GeneratedDocument{
		RecommendationID: recID,
		Sections: []models.DocumentSection{
			{ID: "findings", Heading: "Findings", Body: "The accounts diverge on intent."},
			{ID: "measure", Heading: "Measure", Body: "Written counseling is issued."},
		},
	}, id.NewReviewID(), 1, s.now))

	s.Require().NoError(s.store.Create(s.ctx, c))
	return c
}

func (s *ReviewSuite) TestStartReview() {
	c := s.caseUnderReview()

	updated, err := s.service.StartReview(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(models.ReviewStateInReview, updated.Review.State)

	s.Run("cannot start twice", func() {
		_, err := s.service.StartReview(s.ctx, c.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransition))
	})

	s.Run("requires a document under review", func() {
		bare, err := models.NewCase(id.NewCaseID(), "WC-2026-0002", "interpersonal-conflict", "", "", s.now, s.now)
		s.Require().NoError(err)
		s.Require().NoError(s.store.Create(s.ctx, bare))

		_, err = s.service.StartReview(s.ctx, bare.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeReadinessNotMet))
	})
}

func (s *ReviewSuite) TestAddComment() {
	c := s.caseUnderReview()
	_, err := s.service.StartReview(s.ctx, c.ID)
	s.Require().NoError(err)

	updated, err := s.service.AddComment(s.ctx, c.ID, "measure", "tone down the second sentence")
	s.Require().NoError(err)
	s.Equal(models.ReviewStateChangesRequested, updated.Review.State)
	s.Require().Len(updated.Review.Comments, 1)
	s.Equal("lmueller", updated.Review.Comments[0].Actor)

	s.Run("unknown section", func() {
		_, err := s.service.AddComment(s.ctx, c.ID, "appendix", "missing")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("document-level comment needs no section", func() {
		updated, err := s.service.AddComment(s.ctx, c.ID, "", "overall too formal")
		s.Require().NoError(err)
		s.Len(updated.Review.Comments, 2)
	})
}

func (s *ReviewSuite) TestApplyEdit() {
	c := s.caseUnderReview()
	_, err := s.service.StartReview(s.ctx, c.ID)
	s.Require().NoError(err)

	updated, err := s.service.ApplyEdit(s.ctx, c.ID, "measure", "A mediated conversation is scheduled.")
	s.Require().NoError(err)

	s.Run("section body is replaced", func() {
		section := updated.GeneratedDocument.Section("measure")
		s.Require().NotNil(section)
		s.Equal("A mediated conversation is scheduled.", section.Body)
	})

	s.Run("ledger preserves the original text", func() {
		s.Require().Len(updated.Review.Edits, 1)
		s.Equal("Written counseling is issued.", updated.Review.Edits[0].OriginalText)
		s.Equal("A mediated conversation is scheduled.", updated.Review.Edits[0].NewText)
		s.Equal("lmueller", updated.Review.Edits[0].Actor)
	})

	s.Run("second edit appends", func() {
		updated, err := s.service.ApplyEdit(s.ctx, c.ID, "measure", "Final wording.")
		s.Require().NoError(err)
		s.Require().Len(updated.Review.Edits, 2)
		s.Equal("A mediated conversation is scheduled.", updated.Review.Edits[1].OriginalText)
	})

	s.Run("unknown section", func() {
		_, err := s.service.ApplyEdit(s.ctx, c.ID, "appendix", "text")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *ReviewSuite) TestApprove() {
	c := s.caseUnderReview()
	_, err := s.service.StartReview(s.ctx, c.ID)
	s.Require().NoError(err)

	updated, err := s.service.Approve(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(models.ReviewStateApproved, updated.Review.State)
	s.True(updated.GeneratedDocument.Approved)
	s.Require().NotNil(updated.GeneratedDocument.ApprovedAt)
	s.Equal(s.now, *updated.GeneratedDocument.ApprovedAt)

	s.Run("approved review is closed", func() {
		_, err := s.service.Approve(s.ctx, c.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransition))
	})
}

func (s *ReviewSuite) TestReject() {
	c := s.caseUnderReview()
	_, err := s.service.StartReview(s.ctx, c.ID)
	s.Require().NoError(err)

	s.Run("reason is required", func() {
		_, err := s.service.Reject(s.ctx, c.ID, "  ")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("rejection reopens decision support", func() {
		updated, err := s.service.Reject(s.ctx, c.ID, "misstates the findings")
		s.Require().NoError(err)
		s.Nil(updated.GeneratedDocument)
		s.Nil(updated.SelectedRecommendationID)
		s.Equal(models.CaseStatusPendingReview, updated.Status)
		// Recommendations survive for a new selection; the rejected
		// session stays on the case.
		s.Len(updated.Recommendations, 1)
		s.Require().NotNil(updated.Review)
		s.Equal(models.ReviewStateRejected, updated.Review.State)
		s.Equal("misstates the findings", updated.Review.RejectionReason)
	})
}

func (s *ReviewSuite) TestAuditTrail() {
	c := s.caseUnderReview()
	_, err := s.service.StartReview(s.ctx, c.ID)
	s.Require().NoError(err)
	_, err = s.service.AddComment(s.ctx, c.ID, "findings", "cite the witness statement")
	s.Require().NoError(err)
	_, err = s.service.ApplyEdit(s.ctx, c.ID, "findings", "Revised findings.")
	s.Require().NoError(err)
	_, err = s.service.Approve(s.ctx, c.ID)
	s.Require().NoError(err)

	events, err := s.auditStore.ListByCase(s.ctx, c.ID)
	s.Require().NoError(err)
	actions := make([]string, len(events))
	for i, e := range events {
		actions[i] = e.Action
	}
	s.Equal([]string{
		audit.ActionReviewStarted,
		audit.ActionReviewChangesRequested,
		audit.ActionReviewEdited,
		audit.ActionReviewApproved,
	}, actions)
	s.Equal("1 edits applied during review", events[3].Detail)
}
