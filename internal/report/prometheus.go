package report

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	thresh "github.com/jamesainslie/go-thresh"
)

// PrometheusExporter collects sweep results as gauges for the
// node_exporter textfile collector.
//
// It uses its own registry, so repeated runs in one process never collide
// with the default registry.
type PrometheusExporter struct {
	registry *prometheus.Registry

	metrics *prometheus.GaugeVec
	counts  *prometheus.GaugeVec
	best    *prometheus.GaugeVec
}

// NewPrometheusExporter creates an exporter with an empty registry.
func NewPrometheusExporter() *PrometheusExporter {
	e := &PrometheusExporter{
		registry: prometheus.NewRegistry(),
		metrics: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "thresh",
			Name:      "metric",
			Help:      "Classifier metric at a decision threshold.",
		}, []string{"dataset", "threshold", "metric"}),
		counts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "thresh",
			Name:      "confusion_count",
			Help:      "Confusion matrix cell count at a decision threshold.",
		}, []string{"dataset", "threshold", "cell"}),
		best: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "thresh",
			Name:      "selected_threshold",
			Help:      "Threshold chosen by a selection policy.",
		}, []string{"dataset", "policy"}),
	}

	e.registry.MustRegister(e.metrics, e.counts, e.best)
	return e
}

// ObserveResults records every metric and count of each result.
func (e *PrometheusExporter) ObserveResults(dataset string, results []thresh.EvaluationResult) {
	for _, r := range results {
		thr := r.Threshold.String()
		for _, m := range thresh.AllMetrics() {
			e.metrics.WithLabelValues(dataset, thr, string(m)).Set(m.Value(r))
		}

		cells := []struct {
			name  string
			count int
		}{{"tp", r.TP}, {"fp", r.FP}, {"fn", r.FN}, {"tn", r.TN}}
		for _, c := range cells {
			e.counts.WithLabelValues(dataset, thr, c.name).Set(float64(c.count))
		}
	}
}

// ObserveSelection records the threshold chosen by policy. Results without
// a threshold are skipped.
func (e *PrometheusExporter) ObserveSelection(dataset, policy string, r thresh.EvaluationResult) {
	v, ok := r.Threshold.Value()
	if !ok {
		return
	}
	e.best.WithLabelValues(dataset, policy).Set(v)
}

// WriteTextfile atomically writes the collected gauges to path in the text
// exposition format.
func (e *PrometheusExporter) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, e.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
