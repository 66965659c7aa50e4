package thresh

import (
	"cmp"
	"slices"
)

// BestByF1 returns the result with the highest F1. Ties go to the higher
// recall, then to the lower threshold.
func BestByF1(results []EvaluationResult) (EvaluationResult, error) {
	if len(results) == 0 {
		return EvaluationResult{}, ErrEmptyResults
	}
	return slices.MaxFunc(results, compareByF1), nil
}

// BestWithMinRecall returns, among results with Recall >= minRecall, the one
// with the highest precision. Ties go to the higher F1, then to the lower
// threshold.
func BestWithMinRecall(results []EvaluationResult, minRecall float64) (EvaluationResult, error) {
	if len(results) == 0 {
		return EvaluationResult{}, ErrEmptyResults
	}

	var eligible []EvaluationResult
	for _, r := range results {
		if r.Recall >= minRecall {
			eligible = append(eligible, r)
		}
	}
	if len(eligible) == 0 {
		return EvaluationResult{}, &NoEligibleError{MinRecall: minRecall}
	}
	return slices.MaxFunc(eligible, compareByPrecision), nil
}

func compareByF1(a, b EvaluationResult) int {
	return cmp.Or(
		cmp.Compare(a.F1, b.F1),
		cmp.Compare(a.Recall, b.Recall),
		preferLower(a.Threshold, b.Threshold),
	)
}

func compareByPrecision(a, b EvaluationResult) int {
	return cmp.Or(
		cmp.Compare(a.Precision, b.Precision),
		cmp.Compare(a.F1, b.F1),
		preferLower(a.Threshold, b.Threshold),
	)
}
