package thresh

// Evaluate compares hard predictions against truth and returns the full
// metric record. The threshold is NotApplicable since no cutoff was applied.
func Evaluate(truth, pred []int) (EvaluationResult, error) {
	if len(truth) != len(pred) {
		return EvaluationResult{}, &ShapeError{Op: "evaluate", Other: "pred", Truth: len(truth), Got: len(pred)}
	}

	c, err := CountConfusion(truth, pred)
	if err != nil {
		return EvaluationResult{}, err
	}
	return c.Result(NotApplicable), nil
}
