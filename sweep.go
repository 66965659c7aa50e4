package thresh

import (
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// MaxThresholds bounds the length of a generated grid.
const MaxThresholds = 1_000_000

// DefaultThresholds returns 0.1, 0.2, ..., 0.9.
func DefaultThresholds() []float64 {
	thresholds := floats.Span(make([]float64, 9), 0.1, 0.9)
	for i, t := range thresholds {
		thresholds[i] = roundTo(t, 2)
	}
	return thresholds
}

// Thresholds generates values from min to max inclusive with the given step,
// rounded to the step's precision (at least two decimals) so that repeated
// addition does not drift. It returns nil for a non-positive step, max < min,
// non-finite bounds, or a grid longer than MaxThresholds.
func Thresholds(min, max, step float64) []float64 {
	if !finite(min) || !finite(max) || !finite(step) || !(step > 0) || max < min {
		return nil
	}

	count := math.Floor((max-min)/step+1e-9) + 1
	if count > MaxThresholds {
		return nil
	}

	digits := decimals(step)
	thresholds := make([]float64, int(count))
	for i := range thresholds {
		thresholds[i] = roundTo(min+float64(i)*step, digits)
	}
	return thresholds
}

// Sweep applies each threshold to scores and returns one result per
// threshold, in the order given. A score equal to the threshold counts as
// positive. Nil or empty thresholds mean DefaultThresholds.
func Sweep(truth []int, scores []float64, thresholds []float64, opts ...Option) ([]EvaluationResult, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(truth) != len(scores) {
		return nil, &ShapeError{Op: "sweep", Other: "scores", Truth: len(truth), Got: len(scores)}
	}
	if err := checkLabels("truth", truth); err != nil {
		return nil, err
	}
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds()
	}

	results := make([]EvaluationResult, len(thresholds))

	if cfg.concurrency <= 1 || len(thresholds) == 1 {
		for i, t := range thresholds {
			results[i] = evaluateAt(truth, scores, t)
		}
		return results, nil
	}

	// Each goroutine owns results[i], so no locking is needed.
	var g errgroup.Group
	g.SetLimit(cfg.concurrency)
	for i, t := range thresholds {
		g.Go(func() error {
			results[i] = evaluateAt(truth, scores, t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// evaluateAt counts outcomes at threshold t. Labels must already be checked.
func evaluateAt(truth []int, scores []float64, t float64) EvaluationResult {
	var c Confusion
	for i, s := range scores {
		c.add(truth[i] == 1, s >= t)
	}
	return c.Result(At(t))
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func roundTo(x float64, digits int) float64 {
	p := math.Pow10(digits)
	return math.Round(x*p) / p
}

// decimals returns the number of decimals needed to represent step exactly,
// never fewer than two.
func decimals(step float64) int {
	for d := 2; d < 10; d++ {
		scaled := step * math.Pow10(d)
		if math.Abs(scaled-math.Round(scaled)) < 1e-6 {
			return d
		}
	}
	return 10
}
