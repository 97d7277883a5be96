package quizmark

import (
	"context"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent renders.
	MaxPoolSize = 16
)

// RendererPool hands out one Renderer per goroutine and bounds the number
// of concurrent renders. Renderers are created lazily on first acquire;
// the first one is built by NewRendererPool to validate the options.
type RendererPool struct {
	size      int
	opts      []Option
	renderers []*Renderer
	sem       chan *Renderer
	mu        sync.Mutex
	created   int
	closed    bool
}

// NewRendererPool creates a pool with capacity for n renderers built with
// opts. Returns an error if opts do not produce a valid Renderer.
func NewRendererPool(n int, opts ...Option) (*RendererPool, error) {
	if n < MinPoolSize {
		n = MinPoolSize
	}

	first, err := NewRenderer(opts...)
	if err != nil {
		return nil, err
	}

	p := &RendererPool{
		size:      n,
		opts:      opts,
		renderers: make([]*Renderer, 0, n),
		sem:       make(chan *Renderer, n),
		created:   1,
	}
	p.renderers = append(p.renderers, first)
	p.sem <- first
	return p, nil
}

// Acquire gets a renderer from the pool, creating one if needed.
// Blocks until a renderer is released or ctx is done.
func (p *RendererPool) Acquire(ctx context.Context) (*Renderer, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	p.mu.Unlock()

	// Try to get an existing renderer (non-blocking)
	select {
	case r, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return r, nil
	default:
	}

	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create new renderer outside the lock
		r, err := NewRenderer(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		p.renderers = append(p.renderers, r)
		p.mu.Unlock()
		return r, nil
	}
	p.mu.Unlock()

	// All renderers created, wait for one to be released
	select {
	case r, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a renderer to the pool. Releasing nil or releasing
// after Close is a no-op.
// The lock is held while sending so Close cannot close the channel
// under a sender; the send never blocks because the pool never holds more
// renderers than its capacity.
func (p *RendererPool) Release(r *Renderer) {
	if r == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.sem <- r:
	default:
	}
}

// Close marks the pool closed. Blocked and later Acquire calls return
// ErrPoolClosed.
func (p *RendererPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.sem)
	p.renderers = nil
	return nil
}

// Size returns the pool capacity.
func (p *RendererPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS (adjusted by automaxprocs for
// containers), capped at MaxPoolSize.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	n := runtime.GOMAXPROCS(0)
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
