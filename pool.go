package fig

import (
	"context"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// GeneratorPool bounds how many runs of a Generator render at once.
// Each in-flight run owns one browser, so the pool size is the browser cap.
type GeneratorPool struct {
	gen  *Generator
	size int
	sem  chan struct{}

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// Result is the outcome of one request in a batch.
type Result struct {
	Request Request
	Path    string
	Err     error
}

// NewGeneratorPool creates a pool allowing n concurrent runs of gen.
func NewGeneratorPool(gen *Generator, n int) *GeneratorPool {
	if n < 1 {
		n = 1
	}
	return &GeneratorPool{
		gen:  gen,
		size: n,
		sem:  make(chan struct{}, n),
	}
}

// Generate waits for a free slot, then runs gen.GenerateImage.
// Returns ErrPoolClosed after Close, or ctx's error if cancelled while waiting.
func (p *GeneratorPool) Generate(ctx context.Context, req Request) (string, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return "", ErrPoolClosed
	}
	p.wg.Add(1)
	p.mu.Unlock()
	defer p.wg.Done()

	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-p.sem }()

	return p.gen.GenerateImage(ctx, req)
}

// GenerateAll runs every request through the pool and returns the results
// in request order.
func (p *GeneratorPool) GenerateAll(ctx context.Context, reqs []Request) []Result {
	results := make([]Result, len(reqs))

	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req Request) {
			defer wg.Done()
			path, err := p.Generate(ctx, req)
			results[i] = Result{Request: req, Path: path, Err: err}
		}(i, req)
	}
	wg.Wait()

	return results
}

// Close stops accepting work and waits for in-flight runs to finish.
func (p *GeneratorPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.wg.Wait()
	return nil
}

// Size returns the pool capacity.
func (p *GeneratorPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the optimal pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by CLIs.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers.
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
