package ports

import "fmt"

// Collaborator failures are propagated to the caller unchanged; the core
// never retries and applies no cascade effects on failure. Each collaborator
// gets its own wrapper type so callers can branch on the failing boundary
// with errors.As.

// AnalysisError reports a comparison collaborator failure.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string { return fmt.Sprintf("analysis failed: %v", e.Err) }
func (e *AnalysisError) Unwrap() error { return e.Err }

// PolicyError reports a policy-matching collaborator failure.
type PolicyError struct {
	Err error
}

func (e *PolicyError) Error() string { return fmt.Sprintf("policy matching failed: %v", e.Err) }
func (e *PolicyError) Unwrap() error { return e.Err }

// RecommendationError reports a decision-support collaborator failure.
type RecommendationError struct {
	Err error
}

func (e *RecommendationError) Error() string {
	return fmt.Sprintf("recommendation generation failed: %v", e.Err)
}
func (e *RecommendationError) Unwrap() error { return e.Err }

// GenerationError reports a document-rendering collaborator failure.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return fmt.Sprintf("document generation failed: %v", e.Err) }
func (e *GenerationError) Unwrap() error { return e.Err }

// ExtractionError reports an OCR collaborator failure.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string { return fmt.Sprintf("text extraction failed: %v", e.Err) }
func (e *ExtractionError) Unwrap() error { return e.Err }
