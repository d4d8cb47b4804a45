package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the casefile module.
type Metrics struct {
	CasesCreated   prometheus.Counter
	CasesFinalized prometheus.Counter
	CasesEscalated prometheus.Counter
	CasesDeleted   prometheus.Counter
}

// New creates a Metrics instance with all casefile metrics registered.
func New() *Metrics {
	return &Metrics{
		CasesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caseflow_cases_created_total",
			Help: "Total number of cases created",
		}),
		CasesFinalized: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caseflow_cases_finalized_total",
			Help: "Total number of cases closed via finalization",
		}),
		CasesEscalated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caseflow_cases_escalated_total",
			Help: "Total number of cases routed out via escalation",
		}),
		CasesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caseflow_cases_deleted_total",
			Help: "Total number of cases explicitly deleted",
		}),
	}
}
