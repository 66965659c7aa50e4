package thresh

import "math"

// Confusion holds the confusion counts for the positive class (label 1).
type Confusion struct {
	TP int
	FP int
	FN int
	TN int
}

// CountConfusion tallies truth against pred. Both vectors must have the same
// length and hold only 0 or 1.
func CountConfusion(truth, pred []int) (Confusion, error) {
	if len(truth) != len(pred) {
		return Confusion{}, &ShapeError{Op: "confusion", Other: "pred", Truth: len(truth), Got: len(pred)}
	}
	if err := checkLabels("truth", truth); err != nil {
		return Confusion{}, err
	}
	if err := checkLabels("pred", pred); err != nil {
		return Confusion{}, err
	}

	var c Confusion
	for i, t := range truth {
		c.add(t == 1, pred[i] == 1)
	}
	return c, nil
}

func (c *Confusion) add(actual, predicted bool) {
	switch {
	case actual && predicted:
		c.TP++
	case !actual && predicted:
		c.FP++
	case actual && !predicted:
		c.FN++
	default:
		c.TN++
	}
}

func checkLabels(name string, labels []int) error {
	for i, v := range labels {
		if v != 0 && v != 1 {
			return &LabelError{Vector: name, Index: i, Value: v}
		}
	}
	return nil
}

// N returns the number of samples counted.
func (c Confusion) N() int {
	return c.TP + c.FP + c.FN + c.TN
}

// Support returns the number of actual positives.
func (c Confusion) Support() int {
	return c.TP + c.FN
}

// Precision returns TP/(TP+FP), or 0 when nothing was predicted positive.
func (c Confusion) Precision() float64 {
	return ratio(c.TP, c.TP+c.FP)
}

// Recall returns TP/(TP+FN), or 0 when there are no actual positives.
func (c Confusion) Recall() float64 {
	return ratio(c.TP, c.TP+c.FN)
}

// F1 returns the harmonic mean of precision and recall, or 0 when both are 0.
func (c Confusion) F1() float64 {
	p, r := c.Precision(), c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// Accuracy returns (TP+TN)/N, or 0 for an empty matrix.
func (c Confusion) Accuracy() float64 {
	return ratio(c.TP+c.TN, c.N())
}

// Specificity returns the true-negative rate TN/(TN+FP), or 0 when there are
// no actual negatives.
func (c Confusion) Specificity() float64 {
	return ratio(c.TN, c.TN+c.FP)
}

// BalancedAccuracy returns the mean of recall and specificity.
func (c Confusion) BalancedAccuracy() float64 {
	return (c.Recall() + c.Specificity()) / 2
}

// MCC returns the Matthews correlation coefficient. A degenerate matrix, one
// with any zero marginal sum, yields 0.
func (c Confusion) MCC() float64 {
	tp, fp, fn, tn := float64(c.TP), float64(c.FP), float64(c.FN), float64(c.TN)

	// Marginals are multiplied as floats; the integer product overflows
	// int64 at around 55k samples per class.
	denom := (tp + fp) * (tp + fn) * (tn + fp) * (tn + fn)
	if denom == 0 {
		return 0
	}
	return (tp*tn - fp*fn) / math.Sqrt(denom)
}

// Result derives the full metric record for these counts.
func (c Confusion) Result(t Threshold) EvaluationResult {
	return EvaluationResult{
		Threshold:        t,
		TP:               c.TP,
		FP:               c.FP,
		FN:               c.FN,
		TN:               c.TN,
		Precision:        c.Precision(),
		Recall:           c.Recall(),
		F1:               c.F1(),
		Support:          c.Support(),
		Accuracy:         c.Accuracy(),
		Specificity:      c.Specificity(),
		BalancedAccuracy: c.BalancedAccuracy(),
		MCC:              c.MCC(),
	}
}

func ratio(num, denom int) float64 {
	if denom == 0 {
		return 0
	}
	return float64(num) / float64(denom)
}
