// Package handler wires the case workflow endpoints to the domain services.
// Handlers stay thin: decode, delegate, translate errors.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"caseflow/internal/audit"
	"caseflow/internal/casefile/models"
	"caseflow/internal/casefile/service"
	"caseflow/internal/platform/middleware"
	"caseflow/internal/readiness"
	"caseflow/internal/workflow/ports"
	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/platform/httputil"
	"caseflow/pkg/requestcontext"
)

// CaseService defines the case lifecycle and integrity operations.
type CaseService interface {
	CreateCase(ctx context.Context, input service.CreateCaseInput) (*models.Case, error)
	GetCase(ctx context.Context, caseID id.CaseID) (*models.Case, error)
	ListCases(ctx context.Context) ([]*models.Case, error)
	DeleteCase(ctx context.Context, caseID id.CaseID) error
	Readiness(ctx context.Context, caseID id.CaseID) (readiness.Report, error)
	AuditLog(ctx context.Context, caseID id.CaseID) ([]audit.Event, error)
	AddPerson(ctx context.Context, caseID id.CaseID, input service.PersonInput) (*models.Case, *models.Person, error)
	RemovePerson(ctx context.Context, caseID id.CaseID, personID id.PersonID) (*models.Case, error)
	AddDocument(ctx context.Context, caseID id.CaseID, input service.DocumentInput) (*models.Case, *models.Document, error)
	IntakeDocument(ctx context.Context, caseID id.CaseID, input service.IntakeInput) (*models.Case, *models.Document, error)
	RemoveDocument(ctx context.Context, caseID id.CaseID, documentID id.DocumentID) (*models.Case, error)
	SelectRecommendation(ctx context.Context, caseID id.CaseID, recID id.RecommendationID) (*models.Case, error)
	Finalize(ctx context.Context, caseID id.CaseID, bypass bool) (*models.Case, error)
	Escalate(ctx context.Context, caseID id.CaseID, reason string) (*models.Case, error)
}

// WorkflowService defines the analysis-chain operations.
type WorkflowService interface {
	StartAnalysis(ctx context.Context, caseID id.CaseID) (uint64, error)
	RunAnalysis(ctx context.Context, caseID id.CaseID) (*models.Case, error)
	RunPolicyAlignment(ctx context.Context, caseID id.CaseID) (*models.Case, error)
	RunDecisionSupport(ctx context.Context, caseID id.CaseID) (*models.Case, error)
	GenerateActionDocument(ctx context.Context, caseID id.CaseID) (*models.Case, error)
}

// ReviewService defines the supervisor review operations.
type ReviewService interface {
	StartReview(ctx context.Context, caseID id.CaseID) (*models.Case, error)
	AddComment(ctx context.Context, caseID id.CaseID, sectionID, text string) (*models.Case, error)
	ApplyEdit(ctx context.Context, caseID id.CaseID, sectionID, newText string) (*models.Case, error)
	Approve(ctx context.Context, caseID id.CaseID) (*models.Case, error)
	Reject(ctx context.Context, caseID id.CaseID, reason string) (*models.Case, error)
}

// Handler handles the case workflow endpoints.
type Handler struct {
	cases        CaseService
	workflow     WorkflowService
	review       ReviewService
	logger       *slog.Logger
	jwtValidator middleware.JWTValidator
}

// New creates a new case workflow Handler.
func New(
	cases CaseService,
	workflow WorkflowService,
	review ReviewService,
	logger *slog.Logger,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		cases:        cases,
		workflow:     workflow,
		review:       review,
		logger:       logger,
		jwtValidator: jwtValidator,
	}
}

// Register registers the case routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	caseRouter := chi.NewRouter()
	caseRouter.Use(middleware.Recovery(h.logger))
	caseRouter.Use(middleware.RequestID)
	caseRouter.Use(middleware.RequestTime)
	caseRouter.Use(middleware.Logger(h.logger))
	if h.jwtValidator != nil {
		caseRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
	}

	caseRouter.Post("/cases", h.handleCreateCase)
	caseRouter.Get("/cases", h.handleListCases)
	caseRouter.Get("/cases/{caseID}", h.handleGetCase)
	caseRouter.Delete("/cases/{caseID}", h.handleDeleteCase)
	caseRouter.Get("/cases/{caseID}/readiness", h.handleReadiness)
	caseRouter.Get("/cases/{caseID}/audit", h.handleAuditLog)

	caseRouter.Post("/cases/{caseID}/people", h.handleAddPerson)
	caseRouter.Delete("/cases/{caseID}/people/{personID}", h.handleRemovePerson)
	caseRouter.Post("/cases/{caseID}/documents", h.handleAddDocument)
	caseRouter.Post("/cases/{caseID}/documents/intake", h.handleIntakeDocument)
	caseRouter.Delete("/cases/{caseID}/documents/{documentID}", h.handleRemoveDocument)

	caseRouter.Post("/cases/{caseID}/analysis", h.handleStartAnalysis)
	caseRouter.Post("/cases/{caseID}/analysis/run", h.handleRunAnalysis)
	caseRouter.Post("/cases/{caseID}/policy-alignment", h.handleRunPolicyAlignment)
	caseRouter.Post("/cases/{caseID}/decision-support", h.handleRunDecisionSupport)
	caseRouter.Post("/cases/{caseID}/selection", h.handleSelectRecommendation)
	caseRouter.Post("/cases/{caseID}/action-document", h.handleGenerateActionDocument)

	caseRouter.Post("/cases/{caseID}/review/start", h.handleStartReview)
	caseRouter.Post("/cases/{caseID}/review/comments", h.handleReviewComment)
	caseRouter.Post("/cases/{caseID}/review/edits", h.handleReviewEdit)
	caseRouter.Post("/cases/{caseID}/review/approve", h.handleReviewApprove)
	caseRouter.Post("/cases/{caseID}/review/reject", h.handleReviewReject)

	caseRouter.Post("/cases/{caseID}/finalize", h.handleFinalize)
	caseRouter.Post("/cases/{caseID}/escalate", h.handleEscalate)

	r.Mount("/", caseRouter)
}

func (h *Handler) caseID(w http.ResponseWriter, r *http.Request) (id.CaseID, bool) {
	caseID, err := id.ParseCaseID(chi.URLParam(r, "caseID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.CaseID{}, false
	}
	return caseID, true
}

func (h *Handler) handleCreateCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CreateCaseRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	c, err := h.cases.CreateCase(ctx, req.ToInput())
	if err != nil {
		h.writeServiceError(w, r, "create case", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleListCases(w http.ResponseWriter, r *http.Request) {
	cases, err := h.cases.ListCases(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "list cases", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, cases)
}

func (h *Handler) handleGetCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	c, err := h.cases.GetCase(r.Context(), caseID)
	if err != nil {
		h.writeServiceError(w, r, "get case", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleDeleteCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	if err := h.cases.DeleteCase(r.Context(), caseID); err != nil {
		h.writeServiceError(w, r, "delete case", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleReadiness(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	report, err := h.cases.Readiness(r.Context(), caseID)
	if err != nil {
		h.writeServiceError(w, r, "readiness report", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	events, err := h.cases.AuditLog(r.Context(), caseID)
	if err != nil {
		h.writeServiceError(w, r, "audit log", err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, events)
}

func (h *Handler) handleAddPerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AddPersonRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	c, _, err := h.cases.AddPerson(ctx, caseID, req.ToInput())
	if err != nil {
		h.writeServiceError(w, r, "add person", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleRemovePerson(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	personID, err := id.ParsePersonID(chi.URLParam(r, "personID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.cases.RemovePerson(r.Context(), caseID, personID)
	if err != nil {
		h.writeServiceError(w, r, "remove person", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleAddDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AddDocumentRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	input, err := req.ToInput()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, _, err := h.cases.AddDocument(ctx, caseID, input)
	if err != nil {
		h.writeServiceError(w, r, "add document", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleIntakeDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[IntakeDocumentRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	input, err := req.ToInput()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, _, err := h.cases.IntakeDocument(ctx, caseID, input)
	if err != nil {
		h.writeServiceError(w, r, "intake document", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleRemoveDocument(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	documentID, err := id.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.cases.RemoveDocument(r.Context(), caseID, documentID)
	if err != nil {
		h.writeServiceError(w, r, "remove document", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

// handleStartAnalysis kicks off comparison asynchronously and returns the
// analysis version token the run was started under.
func (h *Handler) handleStartAnalysis(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	token, err := h.workflow.StartAnalysis(r.Context(), caseID)
	if err != nil {
		h.writeServiceError(w, r, "start analysis", err)
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, AnalysisStartedResponse{
		AnalysisVersion: token,
		Status:          "started",
	})
}

func (h *Handler) handleRunAnalysis(w http.ResponseWriter, r *http.Request) {
	h.runPhase(w, r, "run analysis", h.workflow.RunAnalysis)
}

func (h *Handler) handleRunPolicyAlignment(w http.ResponseWriter, r *http.Request) {
	h.runPhase(w, r, "run policy alignment", h.workflow.RunPolicyAlignment)
}

func (h *Handler) handleRunDecisionSupport(w http.ResponseWriter, r *http.Request) {
	h.runPhase(w, r, "run decision support", h.workflow.RunDecisionSupport)
}

func (h *Handler) handleGenerateActionDocument(w http.ResponseWriter, r *http.Request) {
	h.runPhase(w, r, "generate action document", h.workflow.GenerateActionDocument)
}

func (h *Handler) runPhase(w http.ResponseWriter, r *http.Request, name string, run func(context.Context, id.CaseID) (*models.Case, error)) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	start := time.Now()
	c, err := run(r.Context(), caseID)
	if err != nil {
		h.writeServiceError(w, r, name, err)
		return
	}
	h.logger.InfoContext(r.Context(), "workflow phase completed",
		"phase", name,
		"case_id", caseID,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestcontext.RequestID(r.Context()),
	)
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleSelectRecommendation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[SelectRecommendationRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	recID, err := id.ParseRecommendationID(req.RecommendationID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.cases.SelectRecommendation(ctx, caseID, recID)
	if err != nil {
		h.writeServiceError(w, r, "select recommendation", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleStartReview(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	c, err := h.review.StartReview(r.Context(), caseID)
	if err != nil {
		h.writeServiceError(w, r, "start review", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleReviewComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ReviewCommentRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	c, err := h.review.AddComment(ctx, caseID, req.SectionID, req.Text)
	if err != nil {
		h.writeServiceError(w, r, "review comment", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleReviewEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ReviewEditRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	c, err := h.review.ApplyEdit(ctx, caseID, req.SectionID, req.NewText)
	if err != nil {
		h.writeServiceError(w, r, "review edit", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleReviewApprove(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	c, err := h.review.Approve(r.Context(), caseID)
	if err != nil {
		h.writeServiceError(w, r, "review approve", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleReviewReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ReviewRejectRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	c, err := h.review.Reject(ctx, caseID, req.Reason)
	if err != nil {
		h.writeServiceError(w, r, "review reject", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[FinalizeRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	c, err := h.cases.Finalize(ctx, caseID, req.Bypass)
	if err != nil {
		h.writeServiceError(w, r, "finalize case", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleEscalate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[EscalateRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	c, err := h.cases.Escalate(ctx, caseID, req.Reason)
	if err != nil {
		h.writeServiceError(w, r, "escalate case", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	ctx := r.Context()
	err = codeCollaboratorError(err)
	code := dErrors.CodeOf(err)
	logLevel := h.logger.WarnContext
	if code == dErrors.CodeInternal || code == dErrors.CodeCollaboratorFailure {
		logLevel = h.logger.ErrorContext
	}
	logLevel(ctx, "operation failed",
		"operation", operation,
		"code", code,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteError(w, err)
}

// codeCollaboratorError attaches the collaborator_failure code to raw phase
// collaborator errors so the envelope carries the failure reason and maps to
// 502 instead of collapsing to an opaque 500. Coded errors pass through.
func codeCollaboratorError(err error) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	var (
		analysisErr   *ports.AnalysisError
		policyErr     *ports.PolicyError
		recErr        *ports.RecommendationError
		generationErr *ports.GenerationError
		extractionErr *ports.ExtractionError
	)
	switch {
	case errors.As(err, &analysisErr),
		errors.As(err, &policyErr),
		errors.As(err, &recErr),
		errors.As(err, &generationErr),
		errors.As(err, &extractionErr):
		return dErrors.Wrap(err, dErrors.CodeCollaboratorFailure, err.Error())
	}
	return err
}
