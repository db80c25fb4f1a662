package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	AchievementsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "krida_achievements_created_total", Help: "Total achievement claims submitted"},
	)
	Verifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "krida_verifications_total", Help: "Total verification decisions by outcome"},
		[]string{"decision"},
	)
	KPISnapshots = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "krida_kpi_snapshots_total", Help: "Total coach KPI snapshots computed (cache misses)"},
	)
)

func Register() {
	prometheus.MustRegister(AchievementsCreated, Verifications, KPISnapshots)
}
