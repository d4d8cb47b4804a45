package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the workflow module. Tracks phase
// completions, the analysis critical path, and stale-result discards.
type Metrics struct {
	AnalysesCompleted         prometheus.Counter
	AnalysesFailed            prometheus.Counter
	PolicyAlignmentsCompleted prometheus.Counter
	DecisionSupportsCompleted prometheus.Counter
	DocumentsGenerated        prometheus.Counter
	StaleResultsDiscarded     prometheus.Counter
	AnalysisDuration          prometheus.Histogram
}

// New creates a Metrics instance with all workflow metrics registered.
func New() *Metrics {
	return &Metrics{
		AnalysesCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caseflow_analyses_completed_total",
			Help: "Total number of successfully applied comparison analyses",
		}),
		AnalysesFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caseflow_analyses_failed_total",
			Help: "Total number of comparison analyses that failed at the collaborator",
		}),
		PolicyAlignmentsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caseflow_policy_alignments_completed_total",
			Help: "Total number of completed policy alignment phases",
		}),
		DecisionSupportsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caseflow_decision_supports_completed_total",
			Help: "Total number of completed decision support phases",
		}),
		DocumentsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caseflow_action_documents_generated_total",
			Help: "Total number of generated action documents",
		}),
		StaleResultsDiscarded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caseflow_stale_results_discarded_total",
			Help: "Total number of asynchronous results discarded by analysis-version mismatch",
		}),
		AnalysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "caseflow_analysis_duration_seconds",
			Help:    "Duration of comparison analysis collaborator calls",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}
}

// ObserveAnalysis records the duration of one comparison collaborator call.
// Call with time.Now() captured at the start of the call.
func (m *Metrics) ObserveAnalysis(start time.Time) {
	m.AnalysisDuration.Observe(time.Since(start).Seconds())
}

// IncStaleDiscarded records one silently discarded stale result.
func (m *Metrics) IncStaleDiscarded() {
	m.StaleResultsDiscarded.Inc()
}
