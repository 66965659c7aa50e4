package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/go-thresh/internal/config"
)

const scoresCSV = `# Name: unit scores
label,score
1,0.95
1,0.75
1,0.35
0,0.65
0,0.25
0,0.05
`

// run executes the CLI with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvPath, "")

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestSweep_Table(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scores.csv", scoresCSV)

	out, err := run(t, "sweep", path)
	require.NoError(t, err)

	assert.Contains(t, out, "thr |  TP  FP  FN  TN | prec1  rec1   f1_1 | acc\n")
	assert.Contains(t, out, "0.10 |   3   2   0   1 |  0.60  1.00  0.75 |0.67\n")
	assert.Contains(t, out, "0.30 |   3   1   0   2 |  0.75  1.00  0.86 |0.83\n")
	assert.Contains(t, out, "0.90 |   1   0   2   3 |  1.00  0.33  0.50 |0.67\n")
	assert.Contains(t, out,
		"Best threshold by F1: threshold=0.30 precision=0.7500 recall=1.0000 f1=0.8571 (TP=3 FP=1 FN=0 TN=2)")
	assert.Contains(t, out,
		"Best threshold with recall>=0.90: threshold=0.30 precision=0.7500")
}

func TestSweep_RecallFloorUnreachable(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scores.csv", scoresCSV)

	out, err := run(t, "sweep", path, "--thresholds", "0.4,0.7", "--min-recall", "1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 2+2+2+2, "header, rule, 2 rows, 2 selections with blank separators")
	assert.Contains(t, out, "Best threshold by F1: threshold=0.70")
	assert.Contains(t, out, "Best threshold with recall>=1.00: none (thresh: no thresholds achieve recall >= 1)")
}

func TestSweep_Range(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scores.csv", scoresCSV)

	out, err := run(t, "sweep", path, "--range", "0.25:0.35:0.05")
	require.NoError(t, err)

	assert.Contains(t, out, "0.25 |")
	assert.Contains(t, out, "0.30 |")
	assert.Contains(t, out, "0.35 |")
	assert.NotContains(t, out, "0.40 |")
}

func TestSweep_ThresholdAboveOne(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scores.csv", scoresCSV)

	out, err := run(t, "sweep", path, "--thresholds", "0.5,1.5")
	require.NoError(t, err)

	assert.Contains(t, out, "0.50 |   2   1   1   2 |")
	assert.Contains(t, out, "1.50 |   0   0   3   3 |  0.00  0.00  0.00 |0.50\n")
	assert.Contains(t, out, "Best threshold by F1: threshold=0.50")
}

func TestSweep_UnboundedScores(t *testing.T) {
	margins := "label,score\n1,2.3\n1,0.4\n0,-1.2\n0,-3.0\n"
	path := writeFile(t, t.TempDir(), "margins.csv", margins)

	out, err := run(t, "sweep", path, "--range=-1:1:1")
	require.NoError(t, err)

	assert.Contains(t, out, "-1.00 |   2   0   0   2 |")
	assert.Contains(t, out, "1.00 |   1   0   1   2 |")
	assert.Contains(t, out, "Best threshold by F1: threshold=-1.00")
}

func TestSweep_ThresholdsAndRangeExclusive(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scores.csv", scoresCSV)

	_, err := run(t, "sweep", path, "--range", "0.1:0.9:0.1", "--thresholds", "0.5")
	assert.Error(t, err)
}

func TestSweep_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scores.csv", scoresCSV)

	out, err := run(t, "sweep", path, "--format", "json", "--concurrency", "4")
	require.NoError(t, err)

	var doc struct {
		Results []struct {
			Threshold float64 `json:"threshold"`
			TP        int     `json:"tp"`
		} `json:"results"`
		Selections map[string]struct {
			Threshold float64 `json:"threshold"`
		} `json:"selections"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	require.Len(t, doc.Results, 9)
	for i, r := range doc.Results {
		assert.InDelta(t, float64(i+1)/10, r.Threshold, 1e-9, "results keep threshold order")
	}
	assert.Equal(t, 0.3, doc.Selections["best_f1"].Threshold)
	assert.Equal(t, 0.3, doc.Selections["min_recall"].Threshold)
}

func TestSweep_MetricsFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "scores.csv", scoresCSV)
	metrics := filepath.Join(dir, "thresh.prom")

	_, err := run(t, "sweep", path, "--metrics-file", metrics)
	require.NoError(t, err)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `thresh_selected_threshold{dataset="scores",policy="best_f1"} 0.3`)
	assert.Contains(t, string(data), `thresh_confusion_count{cell="tp",dataset="scores",threshold="0.10"} 3`)
}

func TestSweep_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "scores.csv", scoresCSV)
	cfg := writeFile(t, dir, "thresh.yaml", "sweep:\n  thresholds: [0.3, 0.7]\n  min_recall: 0.6\noutput:\n  format: table\n")

	out, err := run(t, "--config", cfg, "sweep", path)
	require.NoError(t, err)

	assert.Contains(t, out, "0.30 |")
	assert.Contains(t, out, "0.70 |")
	assert.NotContains(t, out, "0.50 |")
	assert.Contains(t, out, "Best threshold with recall>=0.60: threshold=0.70 precision=1.0000")
}

func TestSweep_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		body    string
		args    []string
		wantMsg string
	}{
		{"missing file", "", []string{"sweep", filepath.Join(dir, "missing.csv")}, "read file"},
		{"bad label", "label,score\n3,0.5\n", nil, "label 3 is not 0 or 1"},
		{"bad range", scoresCSV, []string{"--range", "0.9:0.1:0.1"}, "need step > 0"},
		{"nan range", scoresCSV, []string{"--range", "NaN:1:0.1"}, "need step > 0"},
		{"infinite range", scoresCSV, []string{"--range", "0:Inf:0.1"}, "need step > 0"},
		{"oversized range", scoresCSV, []string{"--range", "0:1e12:1e-9"}, "at most 1000000 values"},
		{"nan threshold", scoresCSV, []string{"--thresholds", "0.5,NaN"}, "sweep.thresholds[1]"},
		{"bad format", scoresCSV, []string{"--format", "xml"}, "unknown output format"},
		{"bad min recall", scoresCSV, []string{"--min-recall", "2"}, "sweep.min_recall"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.args
			if tt.body != "" {
				path := writeFile(t, t.TempDir(), "data.csv", tt.body)
				args = append([]string{"sweep", path}, tt.args...)
			}
			_, err := run(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestEvaluate_Predictions(t *testing.T) {
	path := writeFile(t, t.TempDir(), "preds.csv", "# Name: holdout\nlabel,prediction\n1,1\n1,0\n0,0\n0,1\n0,0\n")

	out, err := run(t, "evaluate", path)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "holdout\n"))
	assert.Contains(t, out, "[[2, 1], [1, 1]]")
	assert.Contains(t, out, "threshold          n/a")
	assert.Contains(t, out, "accuracy           0.6000")
	assert.Contains(t, out, "support            2")
}

func TestEvaluate_Threshold(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scores.csv", scoresCSV)

	out, err := run(t, "evaluate", path, "--threshold", "0.5")
	require.NoError(t, err)

	assert.Contains(t, out, "threshold          0.50")
	assert.Contains(t, out, "[[2, 1], [1, 2]]")
}

func TestEvaluate_ScoresWithoutThreshold(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scores.csv", scoresCSV)

	_, err := run(t, "evaluate", path)
	assert.ErrorContains(t, err, "is not 0 or 1")
}

func TestSpread(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "seed_00.csv", "label,prediction\n1,1\n0,0\n1,0\n0,0\n")
	writeFile(t, dir, "seed_01.csv", "label,prediction\n1,1\n0,0\n1,1\n0,0\n")

	out, err := run(t, "spread", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "mean-2std")
	assert.Contains(t, out, "accuracy          |    2 | 0.8750 | 0.1250 |    0.6250 |    1.1250 | 0.75 | 1.00")
}

func TestSpread_ScoresAndMetric(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", scoresCSV)

	out, err := run(t, "spread", a, a, "--metric", "recall", "--threshold", "0.3")
	require.NoError(t, err)
	assert.Contains(t, out, "recall            |    2 | 1.0000 | 0.0000 |")

	_, err = run(t, "spread", a, "--metric", "auc")
	assert.Error(t, err)
}

func TestSanity(t *testing.T) {
	out, err := run(t, "sanity")
	require.NoError(t, err)

	assert.Contains(t, out, "SANITY 1: perfect (MCC≈1)")
	assert.Contains(t, out, "SANITY 2: inverse (MCC≈-1)")
	assert.Contains(t, out, "SANITY 3: imbalance always-0 (MCC≈0)")
	assert.Contains(t, out, "mcc                1.0000")
	assert.Contains(t, out, "mcc                -1.0000")
	assert.Contains(t, out, "mcc                0.0000")
	assert.Contains(t, out, "[[990, 0], [10, 0]]")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "thresh (devel) (commit none, built unknown)\n", out)
}

func TestParseRange(t *testing.T) {
	grid, err := parseRange("0.1:0.3:0.1")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, grid)

	for _, bad := range []string{"0.1:0.3", "a:b:c", "0.1:0.3:0"} {
		_, err := parseRange(bad)
		assert.Error(t, err, bad)
	}
}
