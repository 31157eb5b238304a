package observability

import (
	"context"
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/ensureline/pkg/codepage"
	"github.com/aretw0/ensureline/pkg/domain"
	"github.com/aretw0/ensureline/pkg/params"
)

// Metrics holds the collectors fed by the editor hooks.
type Metrics struct {
	Reconciliations *prometheus.CounterVec
	Errors          *prometheus.CounterVec
	Backups         prometheus.Counter
	Duration        *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Reconciliations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ensureline_reconciliations_total",
				Help: "Completed reconciliations by mode, outcome and resource kind",
			},
			[]string{"mode", "changed", "kind"},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ensureline_errors_total",
				Help: "Failed invocations by error kind",
			},
			[]string{"kind"},
		),
		Backups: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ensureline_backups_total",
				Help: "Backup copies written",
			},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ensureline_reconcile_duration_seconds",
				Help:    "Time from read to write of one invocation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Reconciliations, m.Errors, m.Backups, m.Duration)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnReconciled: func(ctx context.Context, e *domain.ReconcileEvent) {
			m.Reconciliations.WithLabelValues(string(e.Mode), strconv.FormatBool(e.Changed), string(e.Kind)).Inc()
			m.Duration.WithLabelValues(string(e.Kind)).Observe(e.Duration.Seconds())
		},
		OnError: func(ctx context.Context, e *domain.ErrorEvent) {
			m.Errors.WithLabelValues(ErrorKind(e.Err)).Inc()
		},
		OnBackup: func(ctx context.Context, e *domain.BackupEvent) {
			m.Backups.Inc()
		},
	}
}

// ErrorKind buckets an error into a low-cardinality label value.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, params.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrInvalidPattern):
		return "invalid_pattern"
	case errors.Is(err, domain.ErrMissingLine):
		return "missing_line"
	case errors.Is(err, domain.ErrMissingCriterion):
		return "missing_criterion"
	case errors.Is(err, domain.ErrConflictingPlacement):
		return "conflicting_placement"
	case errors.Is(err, domain.ErrBackrefExpansion):
		return "backref_expansion"
	case errors.Is(err, domain.ErrResourceNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrPermission):
		return "permission"
	case errors.Is(err, domain.ErrRecordTooLong):
		return "record_too_long"
	case errors.Is(err, codepage.ErrUnmappable), errors.Is(err, codepage.ErrUnknownEncoding):
		return "encoding"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "other"
}
