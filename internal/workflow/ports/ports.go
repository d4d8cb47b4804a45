// Package ports defines the collaborator interfaces the workflow core
// invokes. The collaborators (OCR, language comparison, policy inference,
// recommendation generation, document rendering) are external services; the
// core treats them as opaque asynchronous operations that return structured
// results or fail with a typed error.
package ports

import (
	"context"
	"time"

	"caseflow/internal/casefile/models"
)

//go:generate mockgen -source=ports.go -destination=../mocks/mock_ports.go -package=mocks

// CaseDetails is the case metadata handed to collaborators.
type CaseDetails struct {
	Number       string
	Category     string
	IncidentDate time.Time
	Location     string
	Department   string
}

// ComparisonInput carries everything the comparison collaborator consumes.
// Both complaint documents must have non-empty text; the analysis readiness
// gate guarantees this before the call is made.
type ComparisonInput struct {
	ComplaintA        models.Document
	ComplainantA      models.Person
	ComplaintB        models.Document
	ComplainantB      models.Person
	Case              CaseDetails
	WitnessStatements []models.Document
	PriorHistory      []models.Document
}

// Comparer performs the natural-language comparison of the two complaints.
type Comparer interface {
	RunComparison(ctx context.Context, input ComparisonInput) (*models.ComparisonResult, error)
}

// PolicySection is one addressable section of the active workplace policy.
type PolicySection struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Body  string `yaml:"body" json:"body"`
}

// Policy is the active workplace-conduct policy matched against comparison
// results.
type Policy struct {
	Name     string          `yaml:"name" json:"name"`
	Revision string          `yaml:"revision" json:"revision"`
	Sections []PolicySection `yaml:"sections" json:"sections"`
}

// PolicyMatcher aligns a comparison result with the active policy.
type PolicyMatcher interface {
	MatchPolicy(ctx context.Context, policy Policy, comparison *models.ComparisonResult) ([]models.PolicyMatch, error)
}

// RecommendationInput carries the decision-support inputs.
type RecommendationInput struct {
	Case          CaseDetails
	Comparison    *models.ComparisonResult
	PolicyMatches []models.PolicyMatch
	PriorHistory  []models.Document
}

// Recommender produces decision-support options for the case.
type Recommender interface {
	Recommend(ctx context.Context, input RecommendationInput) ([]models.Recommendation, error)
}

// GenerationInput carries the action-document rendering inputs.
type GenerationInput struct {
	Case           CaseDetails
	Recommendation models.Recommendation
	Comparison     *models.ComparisonResult
	PolicyMatches  []models.PolicyMatch
}

// DocumentGenerator renders the action document for the selected
// recommendation.
type DocumentGenerator interface {
	GenerateActionDocument(ctx context.Context, input GenerationInput) (*models.GeneratedDocument, error)
}

// ExtractionInput carries scanned page images to the OCR collaborator.
type ExtractionInput struct {
	Images            [][]byte
	DocumentTypeLabel string
	SourceLanguage    string
}

// ExtractionResult is the structured OCR output attached to a document.
type ExtractionResult struct {
	OriginalText     string
	TranslatedText   string
	CleanedText      string
	DetectedLanguage string
}

// TextExtractor runs OCR/vision text extraction over scanned images.
type TextExtractor interface {
	ExtractDocumentText(ctx context.Context, input ExtractionInput) (*ExtractionResult, error)
}
