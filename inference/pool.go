package inference

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Pool hands out runners for concurrent scoring. A runner is used by one
// goroutine at a time.
type Pool struct {
	runners chan Runner
	size    int
	mu      sync.Mutex
	closed  bool
}

// NewPool opens size ONNX sessions for modelPath.
func NewPool(modelPath, libPath string, spec ModelSpec, size int) (*Pool, error) {
	return newPool(size, func() (Runner, error) {
		return NewSession(modelPath, libPath, spec)
	})
}

func newPool(size int, open func() (Runner, error)) (*Pool, error) {
	if size <= 0 {
		size = 1
	}

	pool := &Pool{
		runners: make(chan Runner, size),
		size:    size,
	}

	for i := range size {
		r, err := open()
		if err != nil {
			_ = pool.Close() // the open error takes precedence
			return nil, fmt.Errorf("creating session %d: %w", i, err)
		}
		pool.runners <- r
	}

	return pool, nil
}

// Acquire takes a runner from the pool, blocking until one is free or ctx
// is done.
func (p *Pool) Acquire(ctx context.Context) (Runner, error) {
	select {
	case r, ok := <-p.runners:
		if !ok {
			return nil, ErrPoolClosed
		}
		return r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a runner to the pool. Runners released after Close are
// closed instead.
func (p *Pool) Release(r Runner) {
	if r == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		_ = r.Close()
		return
	}

	select {
	case p.runners <- r:
	default:
		_ = r.Close() // pool full
	}
}

// Close closes every idle runner. Runners still checked out are closed on
// Release.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.runners)
	p.mu.Unlock()

	var errs []error
	for r := range p.runners {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Size returns the number of runners the pool was created with.
func (p *Pool) Size() int {
	return p.size
}
