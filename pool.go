package finmemo

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome and Tectonic child processes.
	cpuDivisor = 2
)

// GeneratorFactory builds one pooled Generator.
type GeneratorFactory func() (*Generator, error)

// GeneratorPool hands out Generators for exclusive use. Each Generator owns
// its browser, so n bounds both concurrency and browser count. Generators
// are created lazily on first acquire to avoid startup delay.
type GeneratorPool struct {
	size    int
	factory GeneratorFactory

	mu      sync.Mutex
	created []*Generator
	idle    chan *Generator
	slots   chan struct{}
	closed  bool
}

// NewGeneratorPool creates a pool with capacity for n Generators.
func NewGeneratorPool(n int, factory GeneratorFactory) *GeneratorPool {
	if n < MinPoolSize {
		n = MinPoolSize
	}
	if factory == nil {
		factory = func() (*Generator, error) { return NewGenerator() }
	}
	return &GeneratorPool{
		size:    n,
		factory: factory,
		idle:    make(chan *Generator, n),
		slots:   make(chan struct{}, n),
	}
}

// Acquire returns an idle Generator, creating one when capacity allows.
// It blocks until one is free or ctx is done.
func (p *GeneratorPool) Acquire(ctx context.Context) (*Generator, error) {
	if p.isClosed() {
		return nil, ErrPoolClosed
	}

	select {
	case gen, ok := <-p.idle:
		if !ok {
			return nil, ErrPoolClosed
		}
		return gen, nil
	default:
	}

	select {
	case gen, ok := <-p.idle:
		if !ok {
			return nil, ErrPoolClosed
		}
		return gen, nil
	case p.slots <- struct{}{}:
		return p.create()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// create builds a Generator in a reserved slot. The slot is given back when
// the factory fails.
func (p *GeneratorPool) create() (*Generator, error) {
	gen, err := p.factory()
	if err != nil {
		<-p.slots
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		<-p.slots
		_ = gen.Close()
		return nil, ErrPoolClosed
	}
	p.created = append(p.created, gen)
	return gen, nil
}

// Release returns a Generator to the pool. Releasing after Close is a no-op.
// The lock is held while sending; idle has room for every created Generator.
func (p *GeneratorPool) Release(gen *Generator) {
	if gen == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.idle <- gen
}

// Generate runs req on a pooled Generator and returns it to the pool.
func (p *GeneratorPool) Generate(ctx context.Context, req Request) (*Result, error) {
	gen, err := p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.Release(gen)
	return gen.Generate(ctx, req)
}

// Close releases every created Generator.
// Returns an aggregated error if several fail to close.
func (p *GeneratorPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.idle)
	created := p.created
	p.created = nil
	p.mu.Unlock()

	var errs []error
	for _, gen := range created {
		if err := gen.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *GeneratorPool) Size() int {
	return p.size
}

func (p *GeneratorPool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is container-aware once automaxprocs has run.
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
