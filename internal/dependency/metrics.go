package dependency

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mrz1836/eureka/internal/domain"
)

// Check results used as the "result" label.
const (
	resultOK    = "ok"
	resultCycle = "cycle"
	resultError = "error"
)

// Metrics counts dependency checks. A nil *Metrics records nothing.
type Metrics struct {
	checks     *prometheus.CounterVec
	lookups    prometheus.Counter
	rejections prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eureka",
			Subsystem: "dependency",
			Name:      "checks_total",
			Help:      "Dependency cycle checks by result.",
		}, []string{"result"}),
		lookups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eureka",
			Subsystem: "dependency",
			Name:      "lookups_total",
			Help:      "Task reads performed while walking the dependency graph.",
		}),
		rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eureka",
			Subsystem: "dependency",
			Name:      "rejections_total",
			Help:      "Dependency writes rejected because they would create a cycle.",
		}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.checks, m.lookups, m.rejections} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) observeCheck(err error, cycle bool) {
	if m == nil {
		return
	}
	switch {
	case err != nil && !cycle:
		m.checks.WithLabelValues(resultError).Inc()
	case cycle:
		m.checks.WithLabelValues(resultCycle).Inc()
	default:
		m.checks.WithLabelValues(resultOK).Inc()
	}
}

func (m *Metrics) observeRejection() {
	if m == nil {
		return
	}
	m.rejections.Inc()
}

// countingReader counts every lookup made through it.
type countingReader struct {
	TaskReader
	lookups prometheus.Counter
}

func (r countingReader) GetTaskByID(ctx context.Context, projectID, taskID string) (*domain.Task, error) {
	r.lookups.Inc()
	return r.TaskReader.GetTaskByID(ctx, projectID, taskID)
}

// wrap returns repo with lookup counting when metrics are enabled.
func (m *Metrics) wrap(repo TaskReader) TaskReader {
	if m == nil {
		return repo
	}
	return countingReader{TaskReader: repo, lookups: m.lookups}
}
