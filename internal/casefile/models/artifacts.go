package models

import (
	"time"

	id "caseflow/pkg/domain"
)

// Derived artifacts form a chain: ComparisonResult feeds policy matching and
// decision support, the selected Recommendation feeds document generation.
// Each artifact carries the analysis-version token it was produced under;
// the invalidation cascade clears the whole chain when the token advances.

// ComparisonResult is the output of the language-comparison collaborator.
// Replaced wholesale on re-analysis, never merged.
type ComparisonResult struct {
	GeneratedAt    time.Time `json:"generated_at"`
	Agreements     []string  `json:"agreements"`
	Contradictions []string  `json:"contradictions"`
	Ambiguities    []string  `json:"ambiguities"`
	Summary        string    `json:"summary"`
	Version        uint64    `json:"version"`
}

// PolicyMatch links a comparison result to a section of the active policy.
type PolicyMatch struct {
	PolicySection string `json:"policy_section"`
	Excerpt       string `json:"excerpt"`
	Relevance     string `json:"relevance"`
	Version       uint64 `json:"version"`
}

// Severity levels for recommendations.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Recommendation is one decision-support option offered for the case.
type Recommendation struct {
	ID        id.RecommendationID `json:"id"`
	Title     string              `json:"title"`
	Rationale string              `json:"rationale"`
	Severity  string              `json:"severity"`
	Version   uint64              `json:"version"`
}

// DocumentSection is one addressable section of a generated action document.
type DocumentSection struct {
	ID      string `json:"id"`
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// GeneratedDocument is the rendered action document produced from the
// selected recommendation. Approval is recorded by the supervisor review.
type GeneratedDocument struct {
	GeneratedAt      time.Time           `json:"generated_at"`
	RecommendationID id.RecommendationID `json:"recommendation_id"`
	Sections         []DocumentSection   `json:"sections"`
	Approved         bool                `json:"approved"`
	ApprovedAt       *time.Time          `json:"approved_at,omitempty"`
	Version          uint64              `json:"version"`
}

// Section returns the section with the given ID, or nil.
func (g *GeneratedDocument) Section(sectionID string) *DocumentSection {
	for i := range g.Sections {
		if g.Sections[i].ID == sectionID {
			return &g.Sections[i]
		}
	}
	return nil
}
