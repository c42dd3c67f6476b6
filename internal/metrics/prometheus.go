// Package metrics exposes Prometheus counters for adapter operations.
//
// nicctl is a one-shot process, so metrics are not served over HTTP. Instead
// the registry is written as a node_exporter textfile after each run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nicctl"

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Registry holds all nicctl metrics. A nil *Registry is valid and records
// nothing.
type Registry struct {
	reg *prometheus.Registry

	OperationsTotal *prometheus.CounterVec
	CommandsTotal   *prometheus.CounterVec
	RestartWait     prometheus.Histogram
	LastRun         prometheus.Gauge
}

// New creates a registry with all metrics registered.
func New() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,
		OperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Configurator operations by name and result.",
		}, []string{"operation", "result"}),
		CommandsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Mutating host commands by name and result.",
		}, []string{"command", "result"}),
		RestartWait: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "restart_wait_seconds",
			Help:      "Time spent waiting for an adapter to come back after a restart.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16},
		}),
		LastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last nicctl run.",
		}),
	}
}

func result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

// ObserveOperation counts one configurator operation.
func (r *Registry) ObserveOperation(op string, err error) {
	if r == nil {
		return
	}
	r.OperationsTotal.WithLabelValues(op, result(err)).Inc()
}

// ObserveCommand counts one host command.
func (r *Registry) ObserveCommand(command string, err error) {
	if r == nil {
		return
	}
	r.CommandsTotal.WithLabelValues(command, result(err)).Inc()
}

// ObserveRestartWait records how long a restart waited for the link.
func (r *Registry) ObserveRestartWait(d time.Duration) {
	if r == nil {
		return
	}
	r.RestartWait.Observe(d.Seconds())
}

// Gatherer returns the underlying registry for exposition.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// WriteTextfile stamps the run time and writes all metrics to path in the
// text exposition format. The file is written atomically.
func (r *Registry) WriteTextfile(path string, now time.Time) error {
	if r == nil {
		return nil
	}
	r.LastRun.Set(float64(now.Unix()))
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
