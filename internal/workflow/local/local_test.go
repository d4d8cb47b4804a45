package local

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caseflow/internal/casefile/models"
	"caseflow/internal/workflow/ports"
	id "caseflow/pkg/domain"
	"caseflow/pkg/requestcontext"
)

var now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func comparisonInput(t *testing.T, textA, textB string) ports.ComparisonInput {
	t.Helper()
	personA, err := models.NewPerson(id.NewPersonID(), "A. Keller", "", "", "", true, now)
	require.NoError(t, err)
	personB, err := models.NewPerson(id.NewPersonID(), "B. Roth", "", "", "", true, now)
	require.NoError(t, err)
	docA, err := models.NewDocument(id.NewDocumentID(), models.DocumentTypeComplaintA, &personA.ID, textA, "", "", "", now)
	require.NoError(t, err)
	docB, err := models.NewDocument(id.NewDocumentID(), models.DocumentTypeComplaintB, &personB.ID, textB, "", "", "", now)
	require.NoError(t, err)
	return ports.ComparisonInput{
		ComplaintA:   *docA,
		ComplainantA: *personA,
		ComplaintB:   *docB,
		ComplainantB: *personB,
	}
}

func TestComparerBucketsSentences(t *testing.T) {
	ctx := requestcontext.WithTime(context.Background(), now)
	comparer := NewComparer()

	t.Run("identical sentences agree", func(t *testing.T) {
		input := comparisonInput(t,
			"The argument started during the shift handover.",
			"The argument started during the shift handover.")
		result, err := comparer.RunComparison(ctx, input)
		require.NoError(t, err)
		assert.Len(t, result.Agreements, 1)
		assert.Empty(t, result.Contradictions)
		assert.Empty(t, result.Ambiguities)
	})

	t.Run("partially overlapping sentences contradict", func(t *testing.T) {
		input := comparisonInput(t,
			"Roth shouted during the shift handover near the machine.",
			"Keller shouted during the shift handover near the office.")
		result, err := comparer.RunComparison(ctx, input)
		require.NoError(t, err)
		assert.Empty(t, result.Agreements)
		require.Len(t, result.Contradictions, 1)
		assert.Contains(t, result.Contradictions[0], " / ")
	})

	t.Run("unrelated sentences are ambiguous", func(t *testing.T) {
		input := comparisonInput(t,
			"The printer was broken again.",
			"Nobody cleaned the canteen fridge.")
		result, err := comparer.RunComparison(ctx, input)
		require.NoError(t, err)
		assert.Empty(t, result.Agreements)
		assert.Empty(t, result.Contradictions)
		assert.Len(t, result.Ambiguities, 2)
	})

	t.Run("summary names both complainants", func(t *testing.T) {
		input := comparisonInput(t, "One sentence.", "Another statement entirely different.")
		result, err := comparer.RunComparison(ctx, input)
		require.NoError(t, err)
		assert.Contains(t, result.Summary, "A. Keller")
		assert.Contains(t, result.Summary, "B. Roth")
		assert.Equal(t, now, result.GeneratedAt)
	})
}

func TestPolicyMatcher(t *testing.T) {
	ctx := context.Background()
	matcher := NewPolicyMatcher()
	policy := ports.Policy{
		Name: "Workplace Conduct Policy",
		Sections: []ports.PolicySection{
			{ID: "WCP-1.1", Title: "Respectful Communication", Body: "Employees communicate respectfully and never shout at colleagues during work."},
			{ID: "WCP-9.9", Title: "Travel Expenses", Body: "Reimbursement claims are filed within thirty days with receipts attached."},
		},
	}

	comparison := &models.ComparisonResult{
		Contradictions: []string{"Roth shouted at colleagues during work / Keller never shouted during work"},
	}

	matches, err := matcher.MatchPolicy(ctx, policy, comparison)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "WCP-1.1", matches[0].PolicySection)
	assert.NotEmpty(t, matches[0].Excerpt)
	assert.Contains(t, []string{"low", "medium", "high"}, matches[0].Relevance)

	t.Run("no findings yields no matches", func(t *testing.T) {
		matches, err := matcher.MatchPolicy(ctx, policy, &models.ComparisonResult{})
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

func TestRecommenderTiers(t *testing.T) {
	ctx := context.Background()
	recommender := NewRecommender()

	titles := func(recs []models.Recommendation) []string {
		out := make([]string, len(recs))
		for i, r := range recs {
			out[i] = r.Title
		}
		return out
	}

	t.Run("uncontested case gets the two base options", func(t *testing.T) {
		recs, err := recommender.Recommend(ctx, ports.RecommendationInput{
			Comparison: &models.ComparisonResult{Agreements: []string{"a", "b"}},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Mediated conversation", "Written counseling"}, titles(recs))
		assert.Equal(t, models.SeverityLow, recs[0].Severity)
		assert.Equal(t, models.SeverityMedium, recs[1].Severity)
	})

	t.Run("contested case adds a formal warning", func(t *testing.T) {
		recs, err := recommender.Recommend(ctx, ports.RecommendationInput{
			Comparison: &models.ComparisonResult{Contradictions: []string{"x", "y"}, Agreements: []string{"a"}},
		})
		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Equal(t, "Formal warning", recs[2].Title)
		assert.Equal(t, models.SeverityHigh, recs[2].Severity)
	})

	t.Run("prior history escalates the rationale", func(t *testing.T) {
		prior, err := models.NewDocument(id.NewDocumentID(), models.DocumentTypePriorRecord, nil, "warning 2024", "", "", "", now)
		require.NoError(t, err)
		recs, err := recommender.Recommend(ctx, ports.RecommendationInput{
			Comparison:   &models.ComparisonResult{Agreements: []string{"a"}},
			PriorHistory: []models.Document{*prior},
		})
		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Contains(t, recs[2].Rationale, "1 prior record(s)")
	})
}

func TestDocumentGenerator(t *testing.T) {
	ctx := requestcontext.WithTime(context.Background(), now)
	generator := NewDocumentGenerator()

	doc, err := generator.GenerateActionDocument(ctx, ports.GenerationInput{
		Case: ports.CaseDetails{
			Number:       "WC-2026-0001",
			IncidentDate: now.AddDate(0, 0, -7),
			Location:     "Assembly Hall 2",
		},
		Recommendation: models.Recommendation{Title: "Written counseling", Rationale: "Documented counseling with follow-up."},
		Comparison:     &models.ComparisonResult{Summary: "Accounts diverge on intent.", Agreements: []string{"a"}},
		PolicyMatches:  []models.PolicyMatch{{PolicySection: "WCP-1.1"}, {PolicySection: "WCP-2.3"}},
	})
	require.NoError(t, err)

	sectionIDs := make([]string, len(doc.Sections))
	for i, s := range doc.Sections {
		sectionIDs[i] = s.ID
	}
	assert.Equal(t, []string{"background", "findings", "policy-basis", "measure"}, sectionIDs)
	assert.Contains(t, doc.Sections[0].Body, "WC-2026-0001")
	assert.Contains(t, doc.Sections[2].Body, "WCP-1.1; WCP-2.3")
	assert.Contains(t, doc.Sections[3].Body, "Written counseling")
	assert.Equal(t, now, doc.GeneratedAt)

	t.Run("no policy matches still renders a basis", func(t *testing.T) {
		doc, err := generator.GenerateActionDocument(ctx, ports.GenerationInput{
			Recommendation: models.Recommendation{Title: "Mediated conversation"},
			Comparison:     &models.ComparisonResult{},
		})
		require.NoError(t, err)
		assert.Contains(t, doc.Sections[2].Body, "no specific policy section identified")
	})
}

func TestTextExtractor(t *testing.T) {
	ctx := context.Background()
	extractor := NewTextExtractor()

	t.Run("concatenates plain-text pages", func(t *testing.T) {
		result, err := extractor.ExtractDocumentText(ctx, ports.ExtractionInput{
			Images:         [][]byte{[]byte("  Page one text.  "), []byte("Page two\n  continued.")},
			SourceLanguage: "de",
		})
		require.NoError(t, err)
		assert.Equal(t, "Page one text.\n\nPage two\n  continued.", result.OriginalText)
		assert.Equal(t, "Page one text. Page two continued.", result.CleanedText)
		assert.Equal(t, "de", result.DetectedLanguage)
	})

	t.Run("raster pages fail with a typed error", func(t *testing.T) {
		_, err := extractor.ExtractDocumentText(ctx, ports.ExtractionInput{
			Images: [][]byte{{0xFF, 0xD8, 0xFF, 0xE0}},
		})
		var extractionErr *ports.ExtractionError
		require.ErrorAs(t, err, &extractionErr)
		assert.True(t, strings.Contains(err.Error(), "page 0"))
	})
}

func TestExcerpt(t *testing.T) {
	t.Run("short text passes through", func(t *testing.T) {
		assert.Equal(t, "kurz", excerpt("  kurz  ", 10))
	})

	t.Run("truncation lands on a rune boundary", func(t *testing.T) {
		got := excerpt(strings.Repeat("ä", 10), 5)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, "ää…", got)
	})
}
