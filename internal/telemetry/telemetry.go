// Package telemetry holds the Prometheus collectors of the service. A nil
// *Metrics is valid and records nothing.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AngelCh415/clinicpulse/internal/models"
)

const namespace = "clinicpulse"

type Metrics struct {
	ingestRuns      *prometheus.CounterVec
	recordsIngested *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	unsupportedGoal prometheus.Counter
	computeSeconds  *prometheus.HistogramVec
	snapshotAge     prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ingestRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_runs_total",
			Help:      "Ingest runs by result.",
		}, []string{"result"}),
		recordsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_ingested_total",
			Help:      "Records stored by ingest, by entity kind.",
		}, []string{"kind"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_emitted_total",
			Help:      "Notification events emitted by scans, by type.",
		}, []string{"type"}),
		unsupportedGoal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "goals_unsupported_total",
			Help:      "Goal evaluations whose objective has no formula.",
		}),
		computeSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compute_duration_seconds",
			Help:      "Time spent computing reports.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"op"}),
		snapshotAge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_loaded_timestamp_seconds",
			Help:      "Unix time of the last successful full ingest.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.ingestRuns, m.recordsIngested, m.notifications,
			m.unsupportedGoal, m.computeSeconds, m.snapshotAge)
	}
	return m
}

func (m *Metrics) IngestRun(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ingestRuns.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordsIngested(kind string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.recordsIngested.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) SnapshotLoaded(at time.Time) {
	if m == nil {
		return
	}
	m.snapshotAge.Set(float64(at.Unix()))
}

func (m *Metrics) Notifications(events []models.NotificationEvent) {
	if m == nil {
		return
	}
	for _, e := range events {
		m.notifications.WithLabelValues(string(e.Type)).Inc()
	}
}

func (m *Metrics) UnsupportedGoals(n int) {
	if m == nil || n == 0 {
		return
	}
	m.unsupportedGoal.Add(float64(n))
}

// Observe records the duration since start under op.
func (m *Metrics) Observe(op string, start time.Time) {
	if m == nil {
		return
	}
	m.computeSeconds.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
