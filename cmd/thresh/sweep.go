package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	thresh "github.com/jamesainslie/go-thresh"
	"github.com/jamesainslie/go-thresh/inference"
	"github.com/jamesainslie/go-thresh/internal/dataset"
	"github.com/jamesainslie/go-thresh/internal/report"
)

func newSweepCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep FILE",
		Short: "Sweep decision thresholds over a scored dataset",
		Long: "Applies each threshold to the positive-class scores in FILE, prints the\n" +
			"metrics per threshold and the thresholds chosen by the best-F1 and\n" +
			"recall-floor policies. With --model, every value column of FILE is a\n" +
			"feature and the scores come from the ONNX classifier.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSweep(cmd, args[0])
		},
	}

	f := cmd.Flags()
	f.Float64Slice("thresholds", nil, "Comma-separated thresholds (default 0.1,0.2,...,0.9)")
	f.String("range", "", "Threshold grid as min:max:step, e.g. 0.05:0.95:0.05")
	f.Float64("min-recall", 0.9, "Recall floor for the precision-maximizing policy")
	f.String("format", "table", "Output format: table or json")
	f.Int("concurrency", 1, "Thresholds evaluated in parallel")
	f.String("metrics-file", "", "Write Prometheus textfile metrics to this path")
	f.String("model", "", "ONNX classifier that scores the feature columns")
	cmd.MarkFlagsMutuallyExclusive("thresholds", "range")

	return cmd
}

func (a *app) runSweep(cmd *cobra.Command, path string) error {
	if err := a.applySweepFlags(cmd); err != nil {
		return err
	}
	format, err := a.outputFormat(cmd)
	if err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	ds, err := dataset.Load(path)
	if err != nil {
		return err
	}

	scores, err := a.scores(cmd.Context(), ds)
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := thresh.Sweep(ds.Truth, scores, a.cfg.Sweep.Thresholds,
		thresh.WithConcurrency(a.cfg.Sweep.Concurrency))
	if err != nil {
		return fmt.Errorf("%s: %w", ds.ID, err)
	}
	a.logger.Info("sweep complete",
		"dataset", ds.ID,
		"rows", ds.Len(),
		"thresholds", len(results),
		"elapsed", time.Since(start))

	selections, floorErr, err := a.selectThresholds(results)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		err = report.WriteJSON(out, results, selections...)
	} else {
		err = a.writeSweepTable(out, results, selections, floorErr)
	}
	if err != nil {
		return err
	}

	if path := a.cfg.Output.MetricsFile; path != "" {
		exporter := report.NewPrometheusExporter()
		exporter.ObserveResults(ds.ID, results)
		for _, s := range selections {
			exporter.ObserveSelection(ds.ID, s.Policy, s.Result)
		}
		if err := exporter.WriteTextfile(path); err != nil {
			return err
		}
		a.logger.Info("metrics written", "path", path)
	}
	return nil
}

// applySweepFlags copies explicitly set flags over the loaded config.
func (a *app) applySweepFlags(cmd *cobra.Command) error {
	f := cmd.Flags()
	if f.Changed("min-recall") {
		a.cfg.Sweep.MinRecall, _ = f.GetFloat64("min-recall")
	}
	if f.Changed("concurrency") {
		a.cfg.Sweep.Concurrency, _ = f.GetInt("concurrency")
	}
	if f.Changed("metrics-file") {
		a.cfg.Output.MetricsFile, _ = f.GetString("metrics-file")
	}
	if f.Changed("model") {
		a.cfg.Model.Path, _ = f.GetString("model")
	}
	if f.Changed("thresholds") {
		a.cfg.Sweep.Thresholds, _ = f.GetFloat64Slice("thresholds")
	}
	if spec, _ := f.GetString("range"); spec != "" {
		grid, err := parseRange(spec)
		if err != nil {
			return err
		}
		a.cfg.Sweep.Thresholds = grid
	}
	return nil
}

// scores returns the dataset's score column, or model probabilities when a
// model is configured.
func (a *app) scores(ctx context.Context, ds *dataset.Dataset) ([]float64, error) {
	m := a.cfg.Model
	if m.Path == "" {
		return ds.Scores()
	}

	scorer, err := inference.NewScorer(m.Path,
		inference.ModelSpec{
			InputName:      m.InputName,
			OutputName:     m.OutputName,
			PositiveColumn: m.PositiveColumn,
			Logits:         m.Logits,
		},
		inference.WithPoolSize(m.PoolSize),
		inference.WithBatchSize(m.BatchSize),
		inference.WithLibraryPath(m.Library),
		inference.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	defer func() { _ = scorer.Close() }()

	a.logger.Info("scoring with model", "model", m.Path, "features", len(ds.Columns))
	return scorer.Score(ctx, ds.Features())
}

// selectThresholds applies both selection policies. A recall floor that no
// threshold reaches is returned as floorErr, not as a failure.
func (a *app) selectThresholds(results []thresh.EvaluationResult) (selections []report.Selection, floorErr, err error) {
	best, err := thresh.BestByF1(results)
	if err != nil {
		return nil, nil, err
	}
	selections = []report.Selection{{Policy: "best_f1", Result: best}}

	floor, err := thresh.BestWithMinRecall(results, a.cfg.Sweep.MinRecall)
	switch {
	case err == nil:
		selections = append(selections, report.Selection{Policy: "min_recall", Result: floor})
	case errors.Is(err, thresh.ErrNoEligible):
		a.logger.Warn("recall floor not reached", "min_recall", a.cfg.Sweep.MinRecall)
		floorErr = err
	default:
		return nil, nil, err
	}
	return selections, floorErr, nil
}

func (a *app) writeSweepTable(w io.Writer, results []thresh.EvaluationResult, selections []report.Selection, floorErr error) error {
	if err := report.WriteTable(w, results); err != nil {
		return err
	}

	floorLabel := fmt.Sprintf("Best threshold with recall>=%.2f", a.cfg.Sweep.MinRecall)
	for _, s := range selections {
		label := "Best threshold by F1"
		if s.Policy == "min_recall" {
			label = floorLabel
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if err := report.WriteSelection(w, label, s.Result); err != nil {
			return err
		}
	}

	if floorErr != nil {
		_, err := fmt.Fprintf(w, "\n%s: none (%v)\n", floorLabel, floorErr)
		return err
	}
	return nil
}

// parseRange parses "min:max:step" into an inclusive threshold grid.
func parseRange(spec string) ([]float64, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("range %q: want min:max:step", spec)
	}

	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("range %q: %w", spec, err)
		}
		v[i] = f
	}

	grid := thresh.Thresholds(v[0], v[1], v[2])
	if grid == nil {
		return nil, fmt.Errorf("range %q: need step > 0, finite min <= max and at most %d values", spec, thresh.MaxThresholds)
	}
	return grid, nil
}
