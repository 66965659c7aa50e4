package thresh

import (
	"cmp"
	"math"
	"strconv"
)

// Threshold is a decision cutoff, or NotApplicable for results computed from
// hard predictions.
type Threshold struct {
	value float64
	set   bool
}

// NotApplicable marks a result that involved no thresholding.
var NotApplicable = Threshold{}

// At returns the threshold v.
func At(v float64) Threshold {
	return Threshold{value: v, set: true}
}

// Value returns the cutoff and whether one applies.
func (t Threshold) Value() (float64, bool) {
	return t.value, t.set
}

// IsSet reports whether t is a real cutoff.
func (t Threshold) IsSet() bool {
	return t.set
}

// String formats the cutoff with two decimals, or "n/a".
func (t Threshold) String() string {
	if !t.set {
		return "n/a"
	}
	return strconv.FormatFloat(t.value, 'f', 2, 64)
}

// preferLower orders thresholds so that the lower cutoff compares greater.
// NotApplicable is treated as +Inf, the least preferred value.
func preferLower(a, b Threshold) int {
	return cmp.Compare(b.orInf(), a.orInf())
}

func (t Threshold) orInf() float64 {
	if !t.set {
		return math.Inf(1)
	}
	return t.value
}

// EvaluationResult holds the confusion counts and derived metrics for one
// threshold, or for one pair of hard-label vectors.
type EvaluationResult struct {
	Threshold Threshold

	TP int
	FP int
	FN int
	TN int

	Precision float64
	Recall    float64
	F1        float64
	Support   int // TP+FN

	Accuracy         float64
	Specificity      float64
	BalancedAccuracy float64
	MCC              float64
}

// Confusion returns the counts the result was derived from.
func (r EvaluationResult) Confusion() Confusion {
	return Confusion{TP: r.TP, FP: r.FP, FN: r.FN, TN: r.TN}
}

// PredictedPositives returns TP+FP.
func (r EvaluationResult) PredictedPositives() int {
	return r.TP + r.FP
}
