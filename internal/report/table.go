// Package report renders evaluation results for people and machines.
package report

import (
	"fmt"
	"io"
	"strings"

	thresh "github.com/jamesainslie/go-thresh"
)

const tableHeader = "thr |  TP  FP  FN  TN | prec1  rec1   f1_1 | acc"

// WriteTable writes one fixed-width row per result, in the given order.
func WriteTable(w io.Writer, results []thresh.EvaluationResult) error {
	var b strings.Builder
	b.WriteString(tableHeader + "\n")
	b.WriteString(strings.Repeat("-", len(tableHeader)) + "\n")

	for _, r := range results {
		fmt.Fprintf(&b, "%4s |%4d%4d%4d%4d |%6.2f%6.2f%6.2f |%4.2f\n",
			r.Threshold, r.TP, r.FP, r.FN, r.TN,
			r.Precision, r.Recall, r.F1, r.Accuracy)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteSelection writes a one-line description of a chosen result.
func WriteSelection(w io.Writer, label string, r thresh.EvaluationResult) error {
	_, err := fmt.Fprintf(w, "%s: threshold=%s precision=%.4f recall=%.4f f1=%.4f (TP=%d FP=%d FN=%d TN=%d)\n",
		label, r.Threshold, r.Precision, r.Recall, r.F1, r.TP, r.FP, r.FN, r.TN)
	return err
}

// WriteSummary writes the spread of one metric across runs with its
// mean ± 2σ band.
func WriteSummary(w io.Writer, m thresh.Metric, s thresh.Summary) error {
	lo, hi := s.Band(2)

	var b strings.Builder
	fmt.Fprintf(&b, "%-17s | %4s | %6s | %6s | %9s | %9s | %4s | %4s\n",
		"metric", "n", "mean", "std", "mean-2std", "mean+2std", "min", "max")
	fmt.Fprintf(&b, "%-17s | %4d | %6.4f | %6.4f | %9.4f | %9.4f | %4.2f | %4.2f\n",
		m, s.N, s.Mean, s.StdDev, lo, hi, s.Min, s.Max)

	_, err := io.WriteString(w, b.String())
	return err
}
