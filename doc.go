// Package thresh evaluates binary classifiers and picks decision thresholds.
//
// # Quick Start
//
//	results, err := thresh.Sweep(truth, scores, nil) // 0.1, 0.2, ..., 0.9
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	best, err := thresh.BestByF1(results)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("threshold %s: F1 %.2f\n", best.Threshold, best.F1)
//
// Hard predictions are scored with Evaluate, which reports specificity,
// balanced accuracy and MCC alongside precision, recall and F1.
//
// # Degenerate Matrices
//
// A ratio whose denominator is zero is reported as 0, never NaN. This happens
// routinely at extreme thresholds, for example when nothing is predicted
// positive, and keeps results comparable during selection.
//
// # Thread Safety
//
// All functions are pure. Sweep can evaluate thresholds in parallel via
// WithConcurrency; result order still follows the input thresholds.
package thresh
