package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	thresh "github.com/jamesainslie/go-thresh"
	"github.com/jamesainslie/go-thresh/internal/dataset"
	"github.com/jamesainslie/go-thresh/internal/report"
)

func newSpreadCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spread FILE|DIR...",
		Short: "Summarize a metric across repeated runs",
		Long: "Evaluates every dataset given (directories contribute all their .csv\n" +
			"files, one per seed or split) and reports the mean, population standard\n" +
			"deviation, mean ± 2σ band, minimum and maximum of one metric.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSpread(cmd, args)
		},
	}

	cmd.Flags().String("metric", string(thresh.MetricAccuracy), "Metric to summarize: accuracy, precision, recall, f1, specificity, balanced_accuracy, mcc")
	cmd.Flags().Float64("threshold", 0.5, "Binarize scores at this cutoff for files without predictions")
	return cmd
}

func (a *app) runSpread(cmd *cobra.Command, paths []string) error {
	name, _ := cmd.Flags().GetString("metric")
	metric, err := thresh.ParseMetric(name)
	if err != nil {
		return err
	}
	cutoff, _ := cmd.Flags().GetFloat64("threshold")

	sets, err := loadAll(paths)
	if err != nil {
		return err
	}

	results := make([]thresh.EvaluationResult, 0, len(sets))
	for _, ds := range sets {
		r, err := evaluateDataset(ds, spreadCutoff(ds, cutoff))
		if err != nil {
			return err
		}
		a.logger.Debug("evaluated", "dataset", ds.ID, string(metric), metric.Value(r))
		results = append(results, r)
	}

	s, err := thresh.SummarizeMetric(results, metric)
	if err != nil {
		return err
	}
	a.logger.Info("spread complete", "datasets", s.N, "metric", string(metric))

	return report.WriteSummary(cmd.OutOrStdout(), metric, s)
}

// spreadCutoff reads predictions when the file has them and binarizes
// scores otherwise.
func spreadCutoff(ds *dataset.Dataset, cutoff float64) *float64 {
	if _, err := ds.Column("prediction"); err == nil {
		return nil
	}
	return &cutoff
}

func loadAll(paths []string) ([]*dataset.Dataset, error) {
	var sets []*dataset.Dataset
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}

		if info.IsDir() {
			dir, err := dataset.LoadDir(p)
			if err != nil {
				return nil, err
			}
			sets = append(sets, dir...)
			continue
		}

		ds, err := dataset.Load(p)
		if err != nil {
			return nil, err
		}
		sets = append(sets, ds)
	}

	if len(sets) == 0 {
		return nil, fmt.Errorf("no datasets found in %v", paths)
	}
	return sets, nil
}
