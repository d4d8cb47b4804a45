// Package workflow orchestrates the investigative phases of a case: language
// comparison, policy alignment, decision support, and action-document
// generation.
//
// Long-running collaborator calls never hold the case lock. Each phase
// snapshots its inputs together with the case's analysis-version token,
// invokes the collaborator, and re-enters through the store's Execute
// callback to apply the result. A result whose token no longer matches the
// case is stale: it is discarded silently, never applied over newer state.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"caseflow/internal/audit"
	"caseflow/internal/casefile/models"
	"caseflow/internal/casefile/store"
	"caseflow/internal/readiness"
	wfmetrics "caseflow/internal/workflow/metrics"
	"caseflow/internal/workflow/ports"
	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/platform/sentinel"
	"caseflow/pkg/requestcontext"
)

// Service runs the workflow phases for cases held in the entity store.
type Service struct {
	cases       store.Store
	comparer    ports.Comparer
	matcher     ports.PolicyMatcher
	recommender ports.Recommender
	generator   ports.DocumentGenerator
	policy      ports.Policy

	auditPublisher *audit.Publisher
	logger         *slog.Logger
	metrics        *wfmetrics.Metrics

	// autoChain controls whether a completed analysis immediately starts
	// the downstream phases armed by the cascade's one-shot triggers.
	autoChain bool

	wg sync.WaitGroup
}

// Option configures optional service collaborators.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher *audit.Publisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

func WithMetrics(m *wfmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAutoChain enables automatic phase chaining after analysis completion.
func WithAutoChain(enabled bool) Option {
	return func(s *Service) { s.autoChain = enabled }
}

// New constructs the workflow service. The store and all four phase
// collaborators are required.
func New(cases store.Store, comparer ports.Comparer, matcher ports.PolicyMatcher, recommender ports.Recommender, generator ports.DocumentGenerator, policy ports.Policy, opts ...Option) (*Service, error) {
	if cases == nil {
		return nil, fmt.Errorf("case store is required")
	}
	if comparer == nil || matcher == nil || recommender == nil || generator == nil {
		return nil, fmt.Errorf("all phase collaborators are required")
	}
	s := &Service{
		cases:       cases,
		comparer:    comparer,
		matcher:     matcher,
		recommender: recommender,
		generator:   generator,
		policy:      policy,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Wait blocks until all background phase goroutines have finished. Used by
// server shutdown and tests.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) spawn(ctx context.Context, fn func(ctx context.Context)) {
	detached := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(detached)
	}()
}

func wrapCaseErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "case not found")
	}
	return err
}

// ---------------------------------------------------------------------------
// Analysis
// ---------------------------------------------------------------------------

// StartAnalysis validates the analysis gate, snapshots the inputs, and runs
// the comparison collaborator in the background. Control returns to the
// caller immediately with the version token the run was started against.
func (s *Service) StartAnalysis(ctx context.Context, caseID id.CaseID) (uint64, error) {
	input, token, err := s.prepareAnalysis(ctx, caseID)
	if err != nil {
		return 0, err
	}
	s.spawn(ctx, func(ctx context.Context) {
		if _, err := s.executeAnalysis(ctx, caseID, input, token); err != nil {
			s.logf(ctx, slog.LevelWarn, "background analysis failed", "case_id", caseID, "error", err)
		}
	})
	return token, nil
}

// RunAnalysis is the synchronous variant of StartAnalysis: it awaits the
// collaborator and returns the updated case. The case lock is held only
// while the cascade is applied, never during the collaborator call.
func (s *Service) RunAnalysis(ctx context.Context, caseID id.CaseID) (*models.Case, error) {
	input, token, err := s.prepareAnalysis(ctx, caseID)
	if err != nil {
		return nil, err
	}
	return s.executeAnalysis(ctx, caseID, input, token)
}

func (s *Service) prepareAnalysis(ctx context.Context, caseID id.CaseID) (ports.ComparisonInput, uint64, error) {
	c, err := s.cases.Get(ctx, caseID)
	if err != nil {
		return ports.ComparisonInput{}, 0, wrapCaseErr(err)
	}
	if err := c.EnsureMutable(); err != nil {
		return ports.ComparisonInput{}, 0, err
	}
	if gate := readiness.CanRunAnalysis(c); !gate.OK {
		return ports.ComparisonInput{}, 0, dErrors.New(dErrors.CodeReadinessNotMet, gate.Reason)
	}

	first, second := c.Complainants()
	input := ports.ComparisonInput{
		ComplaintA:        c.DocumentsOfType(models.DocumentTypeComplaintA)[0],
		ComplainantA:      *first,
		ComplaintB:        c.DocumentsOfType(models.DocumentTypeComplaintB)[0],
		ComplainantB:      *second,
		Case:              caseDetails(c),
		WitnessStatements: c.DocumentsOfType(models.DocumentTypeWitnessStatement),
		PriorHistory:      priorHistory(c),
	}
	return input, c.AnalysisVersion, nil
}

func (s *Service) executeAnalysis(ctx context.Context, caseID id.CaseID, input ports.ComparisonInput, token uint64) (*models.Case, error) {
	start := time.Now()
	result, err := s.comparer.RunComparison(ctx, input)
	if err != nil {
		if s.metrics != nil {
			s.metrics.AnalysesFailed.Inc()
		}
		return nil, &ports.AnalysisError{Err: err}
	}
	if s.metrics != nil {
		s.metrics.ObserveAnalysis(start)
	}
	return s.CompleteAnalysis(ctx, caseID, token, *result)
}

// CompleteAnalysis applies the invalidation cascade for an analysis produced
// against the given token. A stale token means a newer analysis has been
// applied in the meantime; the result is discarded silently and (nil, nil)
// is returned.
func (s *Service) CompleteAnalysis(ctx context.Context, caseID id.CaseID, token uint64, result models.ComparisonResult) (*models.Case, error) {
	now := requestcontext.Now(ctx)
	if result.GeneratedAt.IsZero() {
		result.GeneratedAt = now
	}

	updated, err := s.cases.Execute(ctx, caseID, func(c *models.Case) error {
		if c.AnalysisVersion != token {
			return dErrors.Newf(dErrors.CodeStaleResult, "analysis for version %d, case is at %d", token, c.AnalysisVersion)
		}
		return c.ApplyAnalysis(result, now)
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeStaleResult) {
			s.discardStale(ctx, caseID, "analysis", err)
			return nil, nil
		}
		return nil, wrapCaseErr(err)
	}

	if s.metrics != nil {
		s.metrics.AnalysesCompleted.Inc()
	}
	s.emit(ctx, audit.Event{
		CaseID: caseID,
		Action: audit.ActionAnalysisCompleted,
		Detail: fmt.Sprintf("analysis version %d", updated.AnalysisVersion),
	})

	if s.autoChain {
		s.spawn(ctx, func(ctx context.Context) { s.autoRunPolicyAlignment(ctx, caseID) })
		s.spawn(ctx, func(ctx context.Context) { s.autoRunDecisionSupport(ctx, caseID) })
	}
	return updated, nil
}

// ---------------------------------------------------------------------------
// Policy alignment
// ---------------------------------------------------------------------------

// RunPolicyAlignment matches the current comparison result against the
// active policy and stores the matches. The phase consumes the one-shot
// auto-run trigger whether it was armed or not.
func (s *Service) RunPolicyAlignment(ctx context.Context, caseID id.CaseID) (*models.Case, error) {
	c, err := s.cases.Get(ctx, caseID)
	if err != nil {
		return nil, wrapCaseErr(err)
	}
	if err := c.EnsureMutable(); err != nil {
		return nil, err
	}
	if gate := readiness.CanRunPolicyAlignment(c); !gate.OK {
		return nil, dErrors.New(dErrors.CodeReadinessNotMet, gate.Reason)
	}
	token := c.AnalysisVersion

	matches, err := s.matcher.MatchPolicy(ctx, s.policy, c.Comparison)
	if err != nil {
		return nil, &ports.PolicyError{Err: err}
	}

	now := requestcontext.Now(ctx)
	updated, err := s.cases.Execute(ctx, caseID, func(c *models.Case) error {
		c.ConsumeAutoRunPolicyAlignment()
		return c.SetPolicyMatches(matches, token, now)
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeStaleResult) {
			s.discardStale(ctx, caseID, "policy alignment", err)
			return nil, nil
		}
		return nil, wrapCaseErr(err)
	}

	if s.metrics != nil {
		s.metrics.PolicyAlignmentsCompleted.Inc()
	}
	s.emit(ctx, audit.Event{
		CaseID: caseID,
		Action: audit.ActionPolicyAlignmentDone,
		Detail: fmt.Sprintf("%d policy matches", len(matches)),
	})
	return updated, nil
}

// autoRunPolicyAlignment consumes the cascade trigger and runs the phase only
// if the trigger was still armed.
func (s *Service) autoRunPolicyAlignment(ctx context.Context, caseID id.CaseID) {
	if !s.consumeTrigger(ctx, caseID, (*models.Case).ConsumeAutoRunPolicyAlignment) {
		return
	}
	if _, err := s.RunPolicyAlignment(ctx, caseID); err != nil {
		s.logf(ctx, slog.LevelWarn, "auto policy alignment failed", "case_id", caseID, "error", err)
	}
}

// ---------------------------------------------------------------------------
// Decision support
// ---------------------------------------------------------------------------

// RunDecisionSupport produces recommendation options from the current
// comparison result and any policy matches.
func (s *Service) RunDecisionSupport(ctx context.Context, caseID id.CaseID) (*models.Case, error) {
	c, err := s.cases.Get(ctx, caseID)
	if err != nil {
		return nil, wrapCaseErr(err)
	}
	if err := c.EnsureMutable(); err != nil {
		return nil, err
	}
	if gate := readiness.CanRunDecisionSupport(c); !gate.OK {
		return nil, dErrors.New(dErrors.CodeReadinessNotMet, gate.Reason)
	}
	token := c.AnalysisVersion

	recs, err := s.recommender.Recommend(ctx, ports.RecommendationInput{
		Case:          caseDetails(c),
		Comparison:    c.Comparison,
		PolicyMatches: c.PolicyMatches,
		PriorHistory:  priorHistory(c),
	})
	if err != nil {
		return nil, &ports.RecommendationError{Err: err}
	}
	for i := range recs {
		if recs[i].ID.IsNil() {
			recs[i].ID = id.NewRecommendationID()
		}
	}

	now := requestcontext.Now(ctx)
	updated, err := s.cases.Execute(ctx, caseID, func(c *models.Case) error {
		c.ConsumeAutoRunDecisionSupport()
		return c.SetRecommendations(recs, token, now)
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeStaleResult) {
			s.discardStale(ctx, caseID, "decision support", err)
			return nil, nil
		}
		return nil, wrapCaseErr(err)
	}

	if s.metrics != nil {
		s.metrics.DecisionSupportsCompleted.Inc()
	}
	s.emit(ctx, audit.Event{
		CaseID: caseID,
		Action: audit.ActionDecisionSupportDone,
		Detail: fmt.Sprintf("%d recommendations", len(recs)),
	})
	return updated, nil
}

func (s *Service) autoRunDecisionSupport(ctx context.Context, caseID id.CaseID) {
	if !s.consumeTrigger(ctx, caseID, (*models.Case).ConsumeAutoRunDecisionSupport) {
		return
	}
	if _, err := s.RunDecisionSupport(ctx, caseID); err != nil {
		s.logf(ctx, slog.LevelWarn, "auto decision support failed", "case_id", caseID, "error", err)
	}
}

// ---------------------------------------------------------------------------
// Action document generation
// ---------------------------------------------------------------------------

// GenerateActionDocument renders the action document for the selected
// recommendation and opens a supervisor review session for it.
func (s *Service) GenerateActionDocument(ctx context.Context, caseID id.CaseID) (*models.Case, error) {
	c, err := s.cases.Get(ctx, caseID)
	if err != nil {
		return nil, wrapCaseErr(err)
	}
	if err := c.EnsureMutable(); err != nil {
		return nil, err
	}
	if gate := readiness.CanGenerateAction(c); !gate.OK {
		return nil, dErrors.New(dErrors.CodeReadinessNotMet, gate.Reason)
	}
	selected := c.SelectedRecommendation()
	if selected == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "selected recommendation is missing from the case")
	}
	token := c.AnalysisVersion

	doc, err := s.generator.GenerateActionDocument(ctx, ports.GenerationInput{
		Case:           caseDetails(c),
		Recommendation: *selected,
		Comparison:     c.Comparison,
		PolicyMatches:  c.PolicyMatches,
	})
	if err != nil {
		return nil, &ports.GenerationError{Err: err}
	}

	now := requestcontext.Now(ctx)
	if doc.GeneratedAt.IsZero() {
		doc.GeneratedAt = now
	}
	doc.RecommendationID = selected.ID
	reviewID := id.NewReviewID()

	updated, err := s.cases.Execute(ctx, caseID, func(c *models.Case) error {
		return c.AttachGeneratedDocument(*doc, reviewID, token, now)
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeStaleResult) {
			s.discardStale(ctx, caseID, "document generation", err)
			return nil, nil
		}
		return nil, wrapCaseErr(err)
	}

	if s.metrics != nil {
		s.metrics.DocumentsGenerated.Inc()
	}
	s.emit(ctx, audit.Event{
		CaseID: caseID,
		Action: audit.ActionActionDocumentGenerated,
		Detail: fmt.Sprintf("recommendation %s", selected.ID),
	})
	return updated, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// consumeTrigger atomically clears the given one-shot trigger and reports
// whether it was armed. Each trigger fires at most once even when several
// completions race.
func (s *Service) consumeTrigger(ctx context.Context, caseID id.CaseID, consume func(*models.Case) bool) bool {
	armed := false
	_, err := s.cases.Execute(ctx, caseID, func(c *models.Case) error {
		armed = consume(c)
		return nil
	})
	if err != nil {
		s.logf(ctx, slog.LevelWarn, "trigger consumption failed", "case_id", caseID, "error", err)
		return false
	}
	return armed
}

func (s *Service) discardStale(ctx context.Context, caseID id.CaseID, phase string, err error) {
	if s.metrics != nil {
		s.metrics.IncStaleDiscarded()
	}
	s.logf(ctx, slog.LevelDebug, "stale result discarded",
		"case_id", caseID,
		"phase", phase,
		"reason", dErrors.Reason(err),
	)
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	if event.Actor == "" {
		event.Actor = requestcontext.Actor(ctx)
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logf(ctx, slog.LevelWarn, "audit emit failed", "action", event.Action, "case_id", event.CaseID, "error", err)
	}
}

func (s *Service) logf(ctx context.Context, level slog.Level, msg string, args ...any) {
	if s.logger != nil {
		s.logger.Log(ctx, level, msg, args...)
	}
}

func caseDetails(c *models.Case) ports.CaseDetails {
	return ports.CaseDetails{
		Number:       c.Number,
		Category:     c.Category,
		IncidentDate: c.IncidentDate,
		Location:     c.Location,
		Department:   c.Department,
	}
}

// priorHistory collects the documents describing earlier conduct: prior
// records, counseling records, and warning documents.
func priorHistory(c *models.Case) []models.Document {
	var out []models.Document
	for _, d := range c.Documents {
		switch d.Type {
		case models.DocumentTypePriorRecord, models.DocumentTypeCounselingRecord, models.DocumentTypeWarningDocument:
			out = append(out, d)
		}
	}
	return out
}
