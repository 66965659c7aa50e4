package inference

import "errors"

var (
	// ErrModelNotFound indicates the model file does not exist.
	ErrModelNotFound = errors.New("inference: model file not found")

	// ErrPoolClosed is returned by Acquire after Close.
	ErrPoolClosed = errors.New("inference: pool is closed")

	// ErrSessionClosed is returned by Infer after Close.
	ErrSessionClosed = errors.New("inference: session is closed")

	// ErrRaggedInput indicates feature rows of differing widths.
	ErrRaggedInput = errors.New("inference: ragged feature rows")

	// ErrShortOutput indicates the model returned fewer values than rows.
	ErrShortOutput = errors.New("inference: model output too short")
)
