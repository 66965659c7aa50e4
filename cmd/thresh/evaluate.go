package main

import (
	"fmt"

	"github.com/spf13/cobra"

	thresh "github.com/jamesainslie/go-thresh"
	"github.com/jamesainslie/go-thresh/internal/dataset"
	"github.com/jamesainslie/go-thresh/internal/report"
)

func newEvaluateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate FILE",
		Short: "Report the full metric set for hard predictions",
		Long: "Computes precision, recall, F1, accuracy, specificity, balanced accuracy\n" +
			"and MCC for the predictions in FILE. With --threshold, the score column is\n" +
			"binarized at that cutoff first.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEvaluate(cmd, args[0])
		},
	}

	cmd.Flags().Float64("threshold", 0.5, "Binarize scores at this cutoff instead of reading predictions")
	cmd.Flags().String("format", "table", "Output format: table or json")
	return cmd
}

func (a *app) runEvaluate(cmd *cobra.Command, path string) error {
	format, err := a.outputFormat(cmd)
	if err != nil {
		return err
	}

	ds, err := dataset.Load(path)
	if err != nil {
		return err
	}

	var cutoff *float64
	if cmd.Flags().Changed("threshold") {
		t, _ := cmd.Flags().GetFloat64("threshold")
		cutoff = &t
	}

	r, err := evaluateDataset(ds, cutoff)
	if err != nil {
		return err
	}
	a.logger.Info("evaluation complete", "dataset", ds.ID, "rows", ds.Len(), "threshold", r.Threshold.String())

	out := cmd.OutOrStdout()
	if format == "json" {
		return report.WriteJSON(out, []thresh.EvaluationResult{r})
	}
	return report.WriteStandard(out, r, ds.Header.Name)
}

// evaluateDataset evaluates hard predictions, or the scores binarized at
// cutoff when one is given.
func evaluateDataset(ds *dataset.Dataset, cutoff *float64) (thresh.EvaluationResult, error) {
	if cutoff == nil {
		pred, err := ds.Predictions()
		if err != nil {
			return thresh.EvaluationResult{}, err
		}
		r, err := thresh.Evaluate(ds.Truth, pred)
		if err != nil {
			return thresh.EvaluationResult{}, fmt.Errorf("%s: %w", ds.ID, err)
		}
		return r, nil
	}

	scores, err := ds.Scores()
	if err != nil {
		return thresh.EvaluationResult{}, err
	}
	results, err := thresh.Sweep(ds.Truth, scores, []float64{*cutoff})
	if err != nil {
		return thresh.EvaluationResult{}, fmt.Errorf("%s: %w", ds.ID, err)
	}
	return results[0], nil
}
