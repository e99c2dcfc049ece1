package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	balanceClampCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rebanho",
		Subsystem: "balance",
		Name:      "underflow_clamps_total",
		Help:      "Transfers whose source balance was insufficient and got clamped to zero.",
	}, []string{"age_group", "sex"})

	balanceClampDeficit = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rebanho",
		Subsystem: "balance",
		Name:      "underflow_deficit_head_total",
		Help:      "Head-count silently discarded by underflow clamping.",
	}, []string{"age_group", "sex"})

	migrationRunCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rebanho",
		Subsystem: "migration",
		Name:      "runs_total",
		Help:      "Completed migration detection runs.",
	})

	migratedHeadCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rebanho",
		Subsystem: "migration",
		Name:      "migrated_head_total",
		Help:      "Head-count moved between age groups by migration runs.",
	})
)

func init() {
	prometheus.MustRegister(balanceClampCounter, balanceClampDeficit, migrationRunCounter, migratedHeadCounter)
}

// RecordBalanceClamp counts one clamped transfer and the head-count it discarded.
func RecordBalanceClamp(ageGroup, sex string, deficit int) {
	balanceClampCounter.WithLabelValues(ageGroup, sex).Inc()
	if deficit > 0 {
		balanceClampDeficit.WithLabelValues(ageGroup, sex).Add(float64(deficit))
	}
}

// RecordMigrationRun counts one completed detection run and its moved head-count.
func RecordMigrationRun(migratedHead int) {
	migrationRunCounter.Inc()
	if migratedHead > 0 {
		migratedHeadCounter.Add(float64(migratedHead))
	}
}
