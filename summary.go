package thresh

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Metric selects one scalar metric from an EvaluationResult.
type Metric string

// Metrics that can be summarized.
const (
	MetricAccuracy         Metric = "accuracy"
	MetricPrecision        Metric = "precision"
	MetricRecall           Metric = "recall"
	MetricF1               Metric = "f1"
	MetricSpecificity      Metric = "specificity"
	MetricBalancedAccuracy Metric = "balanced_accuracy"
	MetricMCC              Metric = "mcc"
)

// AllMetrics lists every Metric in report order.
func AllMetrics() []Metric {
	return []Metric{
		MetricAccuracy,
		MetricPrecision,
		MetricRecall,
		MetricF1,
		MetricSpecificity,
		MetricBalancedAccuracy,
		MetricMCC,
	}
}

// ParseMetric maps a name such as "f1" or "MCC" to a Metric.
func ParseMetric(name string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range AllMetrics() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("thresh: unknown metric %q", name)
}

// Value extracts the metric from r. Unknown metrics yield 0.
func (m Metric) Value(r EvaluationResult) float64 {
	switch m {
	case MetricAccuracy:
		return r.Accuracy
	case MetricPrecision:
		return r.Precision
	case MetricRecall:
		return r.Recall
	case MetricF1:
		return r.F1
	case MetricSpecificity:
		return r.Specificity
	case MetricBalancedAccuracy:
		return r.BalancedAccuracy
	case MetricMCC:
		return r.MCC
	default:
		return 0
	}
}

// Summary describes the spread of a metric over repeated evaluations, for
// example one evaluation per random split.
type Summary struct {
	N      int
	Mean   float64
	StdDev float64 // population standard deviation
	Min    float64
	Max    float64
}

// Band returns Mean-k*StdDev and Mean+k*StdDev.
func (s Summary) Band(k float64) (lo, hi float64) {
	return s.Mean - k*s.StdDev, s.Mean + k*s.StdDev
}

// Summarize computes the summary of values.
func Summarize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, ErrEmptyResults
	}

	mean, std := stat.PopMeanStdDev(values, nil)
	return Summary{
		N:      len(values),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(values),
		Max:    floats.Max(values),
	}, nil
}

// SummarizeMetric summarizes metric m across results.
func SummarizeMetric(results []EvaluationResult, m Metric) (Summary, error) {
	values := make([]float64, len(results))
	for i, r := range results {
		values[i] = m.Value(r)
	}
	return Summarize(values)
}
