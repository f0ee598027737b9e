// Package metrics counts evaluated cases and runs in Prometheus form.
//
// A Collector is an engine observer with its own registry, so several
// collectors (one per test, say) never clash on the global default
// registry.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/numcheck/internal/ir"
)

// Result label values.
const (
	ResultPass = "pass"
	ResultFail = "fail"
)

// Collector holds the numcheck collectors.
type Collector struct {
	registry *prometheus.Registry
	cases    *prometheus.CounterVec
	runs     *prometheus.CounterVec
	lastRun  *prometheus.GaugeVec
}

// New creates a Collector with all metrics registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		cases: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "numcheck_cases_total",
				Help: "Total number of cases evaluated",
			},
			[]string{"call", "result"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "numcheck_runs_total",
				Help: "Total number of suite runs",
			},
			[]string{"result"},
		),
		lastRun: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "numcheck_last_run_pass",
				Help: "1 if the latest run of the suite passed, 0 otherwise",
			},
			[]string{"suite"},
		),
	}
	c.registry.MustRegister(c.cases, c.runs, c.lastRun)
	return c
}

// Registry exposes the private registry, e.g. for an HTTP handler.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveOutcome counts one evaluated case.
func (c *Collector) ObserveOutcome(o ir.Outcome) {
	c.cases.WithLabelValues(o.Call, result(o.Pass)).Inc()
}

// ObserveRun counts one completed run.
func (c *Collector) ObserveRun(r ir.Run) {
	c.runs.WithLabelValues(result(r.Pass)).Inc()
	v := 0.0
	if r.Pass {
		v = 1
	}
	c.lastRun.WithLabelValues(r.Suite).Set(v)
}

// WriteToTextfile writes every metric in text exposition format,
// atomically, for the node_exporter textfile collector.
func (c *Collector) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}

func result(pass bool) string {
	if pass {
		return ResultPass
	}
	return ResultFail
}
