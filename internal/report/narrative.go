package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"

	thresh "github.com/jamesainslie/go-thresh"
)

// WriteStandard writes the full metric set of r under a title. The title
// is styled only when w is a terminal; other writers get plain text.
func WriteStandard(w io.Writer, r thresh.EvaluationResult, title string) error {
	titleStyle := lipgloss.NewStyle().Bold(true).Underline(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString("Confusion matrix [[TN, FP], [FN, TP]]:\n")
	fmt.Fprintf(&b, "  [[%d, %d], [%d, %d]]\n", r.TN, r.FP, r.FN, r.TP)

	rows := []struct {
		name  string
		value string
	}{
		{"threshold", r.Threshold.String()},
		{"precision", fmt.Sprintf("%.4f", r.Precision)},
		{"recall", fmt.Sprintf("%.4f", r.Recall)},
		{"f1", fmt.Sprintf("%.4f", r.F1)},
		{"support", fmt.Sprintf("%d", r.Support)},
		{"accuracy", fmt.Sprintf("%.4f", r.Accuracy)},
		{"specificity", fmt.Sprintf("%.4f", r.Specificity)},
		{"balanced accuracy", fmt.Sprintf("%.4f", r.BalancedAccuracy)},
		{"mcc", fmt.Sprintf("%.4f", r.MCC)},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "  %-18s %s\n", row.name, row.value)
	}

	_, err := io.WriteString(colorprofile.NewWriter(w, os.Environ()), b.String())
	return err
}
