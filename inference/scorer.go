package inference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"golang.org/x/sync/errgroup"
)

const defaultBatchSize = 256

// Scorer turns feature rows into positive-class probabilities.
// It is safe for concurrent use.
type Scorer struct {
	pool      *Pool
	spec      ModelSpec
	batchSize int
	logger    *slog.Logger
}

// ScorerOption configures a Scorer.
type ScorerOption func(*scorerConfig)

type scorerConfig struct {
	poolSize  int
	batchSize int
	libPath   string
	logger    *slog.Logger
}

func defaultScorerConfig() scorerConfig {
	return scorerConfig{
		poolSize:  1,
		batchSize: defaultBatchSize,
		logger:    slog.New(slog.DiscardHandler),
	}
}

// WithPoolSize sets the number of ONNX sessions. Values below 1 are ignored.
func WithPoolSize(n int) ScorerOption {
	return func(c *scorerConfig) {
		if n > 0 {
			c.poolSize = n
		}
	}
}

// WithBatchSize sets the number of rows per inference call. Values below 1
// are ignored.
func WithBatchSize(n int) ScorerOption {
	return func(c *scorerConfig) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithLibraryPath sets the onnxruntime shared library location.
func WithLibraryPath(path string) ScorerOption {
	return func(c *scorerConfig) {
		c.libPath = path
	}
}

// WithLogger sets the logger for scoring diagnostics.
func WithLogger(l *slog.Logger) ScorerOption {
	return func(c *scorerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewScorer opens a pool of sessions for the model at modelPath.
func NewScorer(modelPath string, spec ModelSpec, opts ...ScorerOption) (*Scorer, error) {
	cfg := defaultScorerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, err := os.Stat(modelPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelPath)
		}
		return nil, fmt.Errorf("checking model file: %w", err)
	}
	if spec.PositiveColumn < 0 {
		return nil, fmt.Errorf("positive column %d is negative", spec.PositiveColumn)
	}

	pool, err := NewPool(modelPath, cfg.libPath, spec, cfg.poolSize)
	if err != nil {
		return nil, err
	}

	cfg.logger.Debug("scorer ready",
		"model", modelPath,
		"pool_size", cfg.poolSize,
		"batch_size", cfg.batchSize)

	return newScorer(pool, spec, cfg), nil
}

func newScorer(pool *Pool, spec ModelSpec, cfg scorerConfig) *Scorer {
	return &Scorer{
		pool:      pool,
		spec:      spec,
		batchSize: cfg.batchSize,
		logger:    cfg.logger,
	}
}

// Score returns P(y=1) for each row, in row order. Batches run in parallel,
// one per pooled session.
func (s *Scorer) Score(ctx context.Context, rows [][]float32) ([]float64, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	features := len(rows[0])
	for i, row := range rows {
		if len(row) != features {
			return nil, fmt.Errorf("%w: row %d has %d features, row 0 has %d",
				ErrRaggedInput, i, len(row), features)
		}
	}

	scores := make([]float64, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.pool.Size())

	for start := 0; start < len(rows); start += s.batchSize {
		end := min(start+s.batchSize, len(rows))
		g.Go(func() error {
			return s.scoreBatch(gctx, rows[start:end], features, scores[start:end])
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug("scored rows", "rows", len(rows), "features", features)
	return scores, nil
}

func (s *Scorer) scoreBatch(ctx context.Context, batch [][]float32, features int, dst []float64) error {
	r, err := s.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer s.pool.Release(r)

	out, cols, err := r.Infer(ctx, flatten(batch, features), len(batch), features)
	if err != nil {
		return err
	}

	return positiveColumn(out, len(batch), cols, s.spec, dst)
}

// Close releases all sessions.
func (s *Scorer) Close() error {
	if s.pool == nil {
		return nil
	}
	return s.pool.Close()
}

func flatten(rows [][]float32, features int) []float32 {
	flat := make([]float32, 0, len(rows)*features)
	for _, row := range rows {
		flat = append(flat, row...)
	}
	return flat
}

// positiveColumn extracts P(y=1) per row from a row-major [rows, cols]
// output into dst.
func positiveColumn(out []float32, rows, cols int, spec ModelSpec, dst []float64) error {
	col := spec.PositiveColumn
	if cols <= 1 {
		cols, col = 1, 0
	}
	if col >= cols {
		return fmt.Errorf("positive column %d out of range for %d output columns", col, cols)
	}
	if len(out) < rows*cols {
		return fmt.Errorf("%w: got %d values, want %d", ErrShortOutput, len(out), rows*cols)
	}

	for i := range rows {
		v := float64(out[i*cols+col])
		if spec.Logits {
			v = sigmoid(v)
		}
		dst[i] = v
	}
	return nil
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
