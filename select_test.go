package thresh

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
)

func result(threshold, precision, recall, f1 float64) EvaluationResult {
	return EvaluationResult{
		Threshold: At(threshold),
		Precision: precision,
		Recall:    recall,
		F1:        f1,
	}
}

func TestBestByF1(t *testing.T) {
	tests := []struct {
		name    string
		results []EvaluationResult
		want    float64
	}{
		{
			name: "highest f1",
			results: []EvaluationResult{
				result(0.3, 0.5, 0.9, 0.64),
				result(0.5, 0.7, 0.8, 0.75),
				result(0.7, 0.9, 0.4, 0.55),
			},
			want: 0.5,
		},
		{
			name: "f1 tie goes to higher recall",
			results: []EvaluationResult{
				result(0.4, 0.9, 0.7, 0.8),
				result(0.6, 0.7, 0.9, 0.8),
			},
			want: 0.6,
		},
		{
			name: "f1 and recall tie goes to lower threshold",
			results: []EvaluationResult{
				result(0.5, 0.7, 0.9, 0.8),
				result(0.3, 0.7, 0.9, 0.8),
			},
			want: 0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BestByF1(tt.results)
			if err != nil {
				t.Fatalf("BestByF1() error = %v", err)
			}
			if v, ok := got.Threshold.Value(); !ok || v != tt.want {
				t.Errorf("BestByF1() threshold = %v, want %v", got.Threshold, tt.want)
			}
		})
	}
}

func TestBestByF1_Empty(t *testing.T) {
	if _, err := BestByF1(nil); !errors.Is(err, ErrEmptyResults) {
		t.Errorf("expected ErrEmptyResults, got: %v", err)
	}
}

func TestBestByF1_OrderIndependent(t *testing.T) {
	truth, scores := randomScores(3, 5, 300)

	results, err := Sweep(truth, scores, Thresholds(0.05, 0.95, 0.05))
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	want, err := BestByF1(results)
	if err != nil {
		t.Fatalf("BestByF1() error = %v", err)
	}

	rng := rand.New(rand.NewPCG(3, 5))
	shuffled := append([]EvaluationResult(nil), results...)
	for range 20 {
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		got, err := BestByF1(shuffled)
		if err != nil {
			t.Fatalf("BestByF1() error = %v", err)
		}
		if got != want {
			t.Fatalf("BestByF1(shuffled) = %v, want %v", got.Threshold, want.Threshold)
		}
	}
}

func TestBestByF1_NotApplicableLosesTies(t *testing.T) {
	standard := EvaluationResult{Threshold: NotApplicable, F1: 0.8, Recall: 0.9}
	swept := result(0.9, 0.7, 0.9, 0.8)

	got, err := BestByF1([]EvaluationResult{standard, swept})
	if err != nil {
		t.Fatalf("BestByF1() error = %v", err)
	}
	if !got.Threshold.IsSet() {
		t.Errorf("BestByF1() picked the n/a result over a tied swept one")
	}
}

func TestBestWithMinRecall(t *testing.T) {
	results := []EvaluationResult{
		result(0.2, 0.60, 0.95, 0.74),
		result(0.5, 0.80, 0.85, 0.82),
		result(0.8, 0.90, 0.70, 0.79),
	}

	tests := []struct {
		minRecall float64
		want      string
	}{
		{0.9, "0.20"},
		{0.7, "0.80"}, // highest precision among all three
	}
	for _, tt := range tests {
		got, err := BestWithMinRecall(results, tt.minRecall)
		if err != nil {
			t.Fatalf("BestWithMinRecall(%v) error = %v", tt.minRecall, err)
		}
		if got.Threshold.String() != tt.want {
			t.Errorf("BestWithMinRecall(%v) = %s, want %s", tt.minRecall, got.Threshold, tt.want)
		}
	}
}

func TestBestWithMinRecall_TieBreaks(t *testing.T) {
	results := []EvaluationResult{
		result(0.6, 0.8, 0.9, 0.80),
		result(0.4, 0.8, 0.95, 0.85),
		result(0.3, 0.8, 0.95, 0.85),
	}

	got, err := BestWithMinRecall(results, 0.9)
	if err != nil {
		t.Fatalf("BestWithMinRecall() error = %v", err)
	}
	if got.Threshold.String() != "0.30" {
		t.Errorf("BestWithMinRecall() = %s, want 0.30", got.Threshold)
	}
}

func TestBestWithMinRecall_Errors(t *testing.T) {
	if _, err := BestWithMinRecall(nil, 0.5); !errors.Is(err, ErrEmptyResults) {
		t.Errorf("expected ErrEmptyResults, got: %v", err)
	}

	_, err := BestWithMinRecall([]EvaluationResult{result(0.5, 0.9, 0.6, 0.72)}, 0.99)
	if !errors.Is(err, ErrNoEligible) {
		t.Fatalf("expected ErrNoEligible, got: %v", err)
	}

	var noEligible *NoEligibleError
	if !errors.As(err, &noEligible) {
		t.Fatalf("expected *NoEligibleError, got %T", err)
	}
	if noEligible.MinRecall != 0.99 {
		t.Errorf("MinRecall = %v, want 0.99", noEligible.MinRecall)
	}
	if !strings.Contains(err.Error(), "0.99") {
		t.Errorf("Error() = %q, want it to name 0.99", err.Error())
	}
}
