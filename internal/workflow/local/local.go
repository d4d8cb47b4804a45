// Package local provides deterministic, rule-based collaborator
// implementations. They keep the workflow runnable without the external
// inference services: comparison by sentence alignment, policy matching by
// keyword overlap, tiered recommendations, and template document rendering.
// Pure domain logic, no I/O.
package local

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"caseflow/internal/casefile/models"
	"caseflow/internal/workflow/ports"
	"caseflow/pkg/requestcontext"
)

// Comparer aligns the two complaint narratives sentence by sentence.
type Comparer struct{}

func NewComparer() *Comparer {
	return &Comparer{}
}

func (c *Comparer) RunComparison(ctx context.Context, input ports.ComparisonInput) (*models.ComparisonResult, error) {
	sentencesA := splitSentences(input.ComplaintA.Text())
	sentencesB := splitSentences(input.ComplaintB.Text())

	result := &models.ComparisonResult{
		GeneratedAt: requestcontext.Now(ctx),
	}

	matchedB := make(map[int]bool, len(sentencesB))
	for _, sa := range sentencesA {
		bestIdx, bestScore := -1, 0.0
		for i, sb := range sentencesB {
			if matchedB[i] {
				continue
			}
			if score := tokenOverlap(sa, sb); score > bestScore {
				bestIdx, bestScore = i, score
			}
		}
		switch {
		case bestScore >= 0.6:
			matchedB[bestIdx] = true
			result.Agreements = append(result.Agreements, sa)
		case bestScore >= 0.25:
			matchedB[bestIdx] = true
			result.Contradictions = append(result.Contradictions,
				fmt.Sprintf("%s / %s", sa, sentencesB[bestIdx]))
		default:
			result.Ambiguities = append(result.Ambiguities, sa)
		}
	}
	for i, sb := range sentencesB {
		if !matchedB[i] {
			result.Ambiguities = append(result.Ambiguities, sb)
		}
	}

	result.Summary = fmt.Sprintf(
		"Complaints by %s and %s: %d aligned statements, %d conflicting, %d unmatched.",
		input.ComplainantA.Name, input.ComplainantB.Name,
		len(result.Agreements), len(result.Contradictions), len(result.Ambiguities))
	return result, nil
}

// PolicyMatcher scores policy sections by keyword overlap with the
// comparison findings.
type PolicyMatcher struct{}

func NewPolicyMatcher() *PolicyMatcher {
	return &PolicyMatcher{}
}

func (m *PolicyMatcher) MatchPolicy(ctx context.Context, policy ports.Policy, comparison *models.ComparisonResult) ([]models.PolicyMatch, error) {
	var findings []string
	findings = append(findings, comparison.Contradictions...)
	findings = append(findings, comparison.Agreements...)
	findingText := strings.ToLower(strings.Join(findings, " "))

	type scored struct {
		match models.PolicyMatch
		score float64
	}
	var candidates []scored
	for _, section := range policy.Sections {
		score := tokenOverlap(findingText, strings.ToLower(section.Body))
		if score < 0.05 {
			continue
		}
		candidates = append(candidates, scored{
			match: models.PolicyMatch{
				PolicySection: section.ID,
				Excerpt:       excerpt(section.Body, 240),
				Relevance:     relevanceLabel(score),
			},
			score: score,
		})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	matches := make([]models.PolicyMatch, 0, len(candidates))
	for _, c := range candidates {
		matches = append(matches, c.match)
	}
	return matches, nil
}

// Recommender tiers options by how contested the accounts are and whether
// the case carries prior disciplinary history.
type Recommender struct{}

func NewRecommender() *Recommender {
	return &Recommender{}
}

func (r *Recommender) Recommend(ctx context.Context, input ports.RecommendationInput) ([]models.Recommendation, error) {
	contested := len(input.Comparison.Contradictions) > len(input.Comparison.Agreements)
	hasPriors := len(input.PriorHistory) > 0

	recs := []models.Recommendation{
		{
			Title:    "Mediated conversation",
			Severity: models.SeverityLow,
			Rationale: fmt.Sprintf("Accounts share %d aligned statements; a facilitated conversation can resolve the remaining %d points of conflict.",
				len(input.Comparison.Agreements), len(input.Comparison.Contradictions)),
		},
		{
			Title:    "Written counseling",
			Severity: models.SeverityMedium,
			Rationale: "Documented counseling for the conduct both accounts agree on, with follow-up review.",
		},
	}
	if contested || hasPriors {
		rationale := "Accounts conflict on the majority of material statements."
		if hasPriors {
			rationale = fmt.Sprintf("Case carries %d prior record(s); escalated response is warranted.", len(input.PriorHistory))
		}
		recs = append(recs, models.Recommendation{
			Title:     "Formal warning",
			Severity:  models.SeverityHigh,
			Rationale: rationale,
		})
	}
	return recs, nil
}

// DocumentGenerator renders the action document from a fixed section
// template.
type DocumentGenerator struct{}

func NewDocumentGenerator() *DocumentGenerator {
	return &DocumentGenerator{}
}

func (g *DocumentGenerator) GenerateActionDocument(ctx context.Context, input ports.GenerationInput) (*models.GeneratedDocument, error) {
	var policyRefs []string
	for _, match := range input.PolicyMatches {
		policyRefs = append(policyRefs, match.PolicySection)
	}
	if len(policyRefs) == 0 {
		policyRefs = []string{"no specific policy section identified"}
	}

	doc := &models.GeneratedDocument{
		GeneratedAt: requestcontext.Now(ctx),
		Sections: []models.DocumentSection{
			{
				ID:      "background",
				Heading: "Background",
				Body: fmt.Sprintf("Case %s, incident of %s at %s. %s",
					input.Case.Number, input.Case.IncidentDate.Format("2006-01-02"),
					input.Case.Location, input.Comparison.Summary),
			},
			{
				ID:      "findings",
				Heading: "Findings",
				Body: fmt.Sprintf("%d statements corroborated by both parties; %d statements remain contradicted.",
					len(input.Comparison.Agreements), len(input.Comparison.Contradictions)),
			},
			{
				ID:      "policy-basis",
				Heading: "Policy Basis",
				Body:    "Applicable provisions: " + strings.Join(policyRefs, "; ") + ".",
			},
			{
				ID:      "measure",
				Heading: "Measure",
				Body: fmt.Sprintf("%s. %s", input.Recommendation.Title,
					input.Recommendation.Rationale),
			},
		},
	}
	return doc, nil
}

// TextExtractor accepts page images that are UTF-8 text, concatenating
// pages. Scanned raster images require the external OCR collaborator; this
// implementation keeps development and tests self-contained.
type TextExtractor struct{}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

func (e *TextExtractor) ExtractDocumentText(ctx context.Context, input ports.ExtractionInput) (*ports.ExtractionResult, error) {
	var pages []string
	for i, image := range input.Images {
		if !utf8.Valid(image) {
			return nil, &ports.ExtractionError{
				Err: fmt.Errorf("page %d is not plain text; raster OCR is not available", i),
			}
		}
		pages = append(pages, strings.TrimSpace(string(image)))
	}
	text := strings.Join(pages, "\n\n")
	return &ports.ExtractionResult{
		OriginalText:     text,
		CleanedText:      collapseWhitespace(text),
		DetectedLanguage: input.SourceLanguage,
	}, nil
}

func splitSentences(text string) []string {
	var sentences []string
	for _, raw := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	}) {
		if s := strings.TrimSpace(raw); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func tokens(text string) map[string]bool {
	set := make(map[string]bool)
	for _, word := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		if len(word) > 2 {
			set[word] = true
		}
	}
	return set
}

// tokenOverlap is the Jaccard index over word sets.
func tokenOverlap(a, b string) float64 {
	setA, setB := tokens(a), tokens(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	shared := 0
	for word := range setA {
		if setB[word] {
			shared++
		}
	}
	return float64(shared) / float64(len(setA)+len(setB)-shared)
}

func relevanceLabel(score float64) string {
	switch {
	case score >= 0.3:
		return "high"
	case score >= 0.12:
		return "medium"
	default:
		return "low"
	}
}

func excerpt(text string, limit int) string {
	text = collapseWhitespace(text)
	if len(text) <= limit {
		return text
	}
	// Back up to a rune boundary so the cut never splits a multi-byte rune.
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "…"
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
