package calc

import "fmt"

// Evaluator compiles normalized expression text into trees and evaluates them.
// It is safe for concurrent use.
type Evaluator struct {
	reg       *Registry
	cacheSize int
	cache     *treeCache
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithCacheSize sets how many parsed trees are retained. Zero disables the cache.
func WithCacheSize(n int) Option {
	return func(e *Evaluator) {
		e.cacheSize = n
	}
}

func NewEvaluator(reg *Registry, opts ...Option) *Evaluator {
	if reg == nil {
		reg = DefaultRegistry()
	}
	e := &Evaluator{reg: reg, cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(e)
	}
	e.cache = newTreeCache(e.cacheSize)
	return e
}

// Registry returns the registry names are resolved against.
func (e *Evaluator) Registry() *Registry { return e.reg }

// Compile parses src, reusing a cached tree when the same text was compiled before.
func (e *Evaluator) Compile(src string) (*Expr, error) {
	if ex, ok := e.cache.get(src); ok {
		return ex, nil
	}
	ex, err := parse(e.reg, src)
	if err != nil {
		return nil, err
	}
	e.cache.put(ex)
	return ex, nil
}

// Evaluate compiles and evaluates normalized text under the given mode.
func (e *Evaluator) Evaluate(src string, m Mode) (float64, error) {
	ex, err := e.Compile(src)
	if err != nil {
		return 0, err
	}
	v, err := ex.Eval(m.Angle)
	if err != nil {
		return 0, fmt.Errorf("evaluate %q: %w", src, err)
	}
	return v, nil
}

// CacheStats reports parse cache usage.
func (e *Evaluator) CacheStats() CacheStats { return e.cache.stats() }
