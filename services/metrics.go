package services

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	Created          *prometheus.CounterVec
	QuotaRejected    *prometheus.CounterVec
	QuotaCompensated *prometheus.CounterVec
	ParentFlipped    prometheus.Counter
	ParentReverted   prometheus.Counter
	ParentAdvisories prometheus.Counter
}

// NewMetrics builds the project creation collectors and registers them on
// reg when it is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "projects_created_total",
			Help: "Projects created, by project type.",
		}, []string{"type"}),
		QuotaRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "projects_quota_rejected_total",
			Help: "Root project creations refused because the tier ceiling was reached.",
		}, []string{"tier"}),
		QuotaCompensated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "projects_quota_compensated_total",
			Help: "Quota reservations released after a later step failed, by failure kind.",
		}, []string{"reason"}),
		ParentFlipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "projects_parent_flipped_total",
			Help: "Parent projects demoted from LEAFY to NORMAL.",
		}),
		ParentReverted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "projects_parent_reverted_total",
			Help: "Parent projects put back to LEAFY after the creation that demoted them failed.",
		}),
		ParentAdvisories: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "projects_parent_advisories_total",
			Help: "Creations that left a LEAFY parent untouched because it still had tasks.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Created, m.QuotaRejected, m.QuotaCompensated, m.ParentFlipped, m.ParentReverted, m.ParentAdvisories)
	}
	return m
}
