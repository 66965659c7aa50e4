// Package inference scores feature rows with an ONNX binary classifier.
package inference

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	ortEnvOnce sync.Once
	ortEnvErr  error
)

// initORT initializes the ONNX Runtime environment once. libPath, when set,
// points at the onnxruntime shared library.
func initORT(libPath string) error {
	ortEnvOnce.Do(func() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		ortEnvErr = ort.InitializeEnvironment()
	})
	return ortEnvErr
}

// ModelSpec describes the tensors of an exported classifier.
type ModelSpec struct {
	InputName  string // float input of shape [N, F]
	OutputName string // probability output of shape [N, K] or [N]

	// PositiveColumn selects P(y=1) from a [N, K] output. Ignored when K is 1.
	PositiveColumn int

	// Logits marks the output as raw log-odds; a sigmoid is applied.
	Logits bool
}

// DefaultModelSpec matches a scikit-learn classifier converted with
// skl2onnx and zipmap disabled.
func DefaultModelSpec() ModelSpec {
	return ModelSpec{
		InputName:      "float_input",
		OutputName:     "probabilities",
		PositiveColumn: 1,
	}
}

// Runner runs a classifier on a flattened batch of rows. It returns the raw
// output values and the number of output columns per row.
type Runner interface {
	Infer(ctx context.Context, input []float32, rows, features int) ([]float32, int, error)
	Close() error
}

// Session wraps one ONNX Runtime session.
type Session struct {
	session *ort.DynamicAdvancedSession
	mu      sync.Mutex
	closed  bool
}

// NewSession creates a session from a model file.
func NewSession(modelPath, libPath string, spec ModelSpec) (*Session, error) {
	if _, err := os.Stat(modelPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelPath)
		}
		return nil, fmt.Errorf("model file: %w", err)
	}

	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("initializing ONNX runtime: %w", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("creating session options: %w", err)
	}
	defer func() { _ = options.Destroy() }()

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{spec.InputName},
		[]string{spec.OutputName},
		options,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &Session{session: session}, nil
}

// Infer runs the model on rows*features values laid out row-major.
func (s *Session) Infer(ctx context.Context, input []float32, rows, features int) ([]float32, int, error) {
	select {
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	default:
	}

	if len(input) != rows*features {
		return nil, 0, fmt.Errorf("%w: %d values for %dx%d input", ErrRaggedInput, len(input), rows, features)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, 0, ErrSessionClosed
	}

	inputTensor, err := ort.NewTensor(ort.NewShape(int64(rows), int64(features)), input)
	if err != nil {
		return nil, 0, fmt.Errorf("creating input tensor: %w", err)
	}
	defer func() { _ = inputTensor.Destroy() }()

	// nil entries are allocated by Run
	outputs := []ort.Value{nil}
	if err := s.session.Run([]ort.Value{inputTensor}, outputs); err != nil {
		return nil, 0, fmt.Errorf("running inference: %w", err)
	}
	if outputs[0] == nil {
		return nil, 0, errors.New("no output produced")
	}
	defer func() { _ = outputs[0].Destroy() }()

	probs, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, 0, fmt.Errorf("unexpected output tensor type %T", outputs[0])
	}

	cols := 1
	if shape := probs.GetShape(); len(shape) == 2 {
		cols = int(shape[1])
	}

	data := probs.GetData()
	out := make([]float32, len(data))
	copy(out, data)

	return out, cols, nil
}

// Close releases ONNX resources.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	if s.session != nil {
		return s.session.Destroy()
	}
	return nil
}
