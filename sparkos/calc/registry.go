package calc

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

// Entry describes a constant (Arity 0) or function (Arity 1 or 2) callable from expressions.
type Entry struct {
	Name  string
	Arity int
	Fn    func(args []float64, angle AngleMode) float64

	// Inverse and Hyperbolic name the entries a function key resolves to while the
	// corresponding modifier is set. Empty means the key keeps its base entry.
	Inverse    string
	Hyperbolic string
}

type resolveKey struct {
	name       string
	inverse    bool
	hyperbolic bool
}

// Registry is the immutable catalogue of entries plus the modifier resolution table.
type Registry struct {
	entries map[string]*Entry
	table   map[resolveKey]*Entry
}

// NewRegistry validates entries and builds the resolution table.
func NewRegistry(entries []Entry) (*Registry, error) {
	r := &Registry{
		entries: make(map[string]*Entry, len(entries)),
		table:   make(map[resolveKey]*Entry, len(entries)*4),
	}
	for i := range entries {
		e := entries[i]
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			return nil, fmt.Errorf("calc registry: empty entry name")
		}
		if e.Arity < 0 || e.Arity > 2 {
			return nil, fmt.Errorf("calc registry: %q has arity %d", e.Name, e.Arity)
		}
		if e.Fn == nil {
			return nil, fmt.Errorf("calc registry: %q has no implementation", e.Name)
		}
		if _, ok := r.entries[e.Name]; ok {
			return nil, fmt.Errorf("calc registry: duplicate entry %q", e.Name)
		}
		r.entries[e.Name] = &e
	}

	for _, e := range r.entries {
		inv, err := r.alias(e, e.Inverse)
		if err != nil {
			return nil, err
		}
		hyp, err := r.alias(e, e.Hyperbolic)
		if err != nil {
			return nil, err
		}
		// Inverse wins over hyperbolic; the two never combine.
		r.table[resolveKey{e.Name, false, false}] = e
		r.table[resolveKey{e.Name, false, true}] = hyp
		r.table[resolveKey{e.Name, true, false}] = inv
		r.table[resolveKey{e.Name, true, true}] = inv
	}
	return r, nil
}

func (r *Registry) alias(base *Entry, name string) (*Entry, error) {
	if name == "" {
		return base, nil
	}
	target, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("calc registry: %q aliases unknown entry %q", base.Name, name)
	}
	if target.Arity != base.Arity {
		return nil, fmt.Errorf("calc registry: %q aliases %q with different arity", base.Name, name)
	}
	return target, nil
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Resolve returns the entry a key labelled base selects under the given modifiers.
func (r *Registry) Resolve(base string, m Mode) (*Entry, bool) {
	e, ok := r.table[resolveKey{name: base, inverse: m.Inverse, hyperbolic: m.Hyperbolic}]
	return e, ok
}

// Names returns all entry names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.entries))
	for name := range r.entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

var (
	defaultRegistryOnce sync.Once
	defaultRegistry     *Registry
)

// DefaultRegistry returns the process-wide calculator catalogue.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		r, err := NewRegistry(builtinEntries())
		if err != nil {
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

func builtinEntries() []Entry {
	return []Entry{
		// Constants.
		{Name: "pi", Arity: 0, Fn: constant(math.Pi)},
		{Name: "e", Arity: 0, Fn: constant(math.E)},

		// Trigonometry.
		{Name: "sin", Arity: 1, Fn: angleIn(math.Sin), Inverse: "asin", Hyperbolic: "sinh"},
		{Name: "cos", Arity: 1, Fn: angleIn(math.Cos), Inverse: "acos", Hyperbolic: "cosh"},
		{Name: "tan", Arity: 1, Fn: angleIn(math.Tan), Inverse: "atan", Hyperbolic: "tanh"},
		{Name: "asin", Arity: 1, Fn: angleOut(math.Asin)},
		{Name: "acos", Arity: 1, Fn: angleOut(math.Acos)},
		{Name: "atan", Arity: 1, Fn: angleOut(math.Atan)},

		// Hyperbolic functions ignore the angle mode.
		{Name: "sinh", Arity: 1, Fn: unary(math.Sinh)},
		{Name: "cosh", Arity: 1, Fn: unary(math.Cosh)},
		{Name: "tanh", Arity: 1, Fn: unary(math.Tanh)},
		{Name: "asinh", Arity: 1, Fn: unary(math.Asinh)},
		{Name: "acosh", Arity: 1, Fn: unary(math.Acosh)},
		{Name: "atanh", Arity: 1, Fn: unary(math.Atanh)},

		// Exponentials and logs.
		{Name: "log", Arity: 1, Fn: unary(math.Log10), Inverse: "pow10"},
		{Name: "ln", Arity: 1, Fn: unary(math.Log), Inverse: "exp"},
		{Name: "exp", Arity: 1, Fn: unary(math.Exp)},
		{Name: "pow10", Arity: 1, Fn: unary(func(x float64) float64 { return math.Pow(10, x) })},

		// Powers and roots.
		{Name: "sq", Arity: 1, Fn: unary(func(x float64) float64 { return x * x }), Inverse: "sqrt"},
		{Name: "sqrt", Arity: 1, Fn: unary(math.Sqrt), Inverse: "cb"},
		{Name: "cb", Arity: 1, Fn: unary(func(x float64) float64 { return x * x * x })},
		{Name: "cbrt", Arity: 1, Fn: unary(math.Cbrt)},
		{Name: "inv", Arity: 1, Fn: unary(func(x float64) float64 { return 1 / x })},
		{Name: "pow", Arity: 2, Fn: func(args []float64, _ AngleMode) float64 {
			return math.Pow(args[0], args[1])
		}},

		// Misc.
		{Name: "abs", Arity: 1, Fn: unary(math.Abs)},
		{Name: "fact", Arity: 1, Fn: unary(factorial)},
	}
}

func constant(v float64) func([]float64, AngleMode) float64 {
	return func(_ []float64, _ AngleMode) float64 { return v }
}

func unary(fn func(float64) float64) func([]float64, AngleMode) float64 {
	return func(args []float64, _ AngleMode) float64 { return fn(args[0]) }
}

// angleIn wraps a direct trig function whose argument is an angle.
func angleIn(fn func(float64) float64) func([]float64, AngleMode) float64 {
	return func(args []float64, angle AngleMode) float64 {
		x := args[0]
		if angle == Degrees {
			x = x * math.Pi / 180
		}
		return fn(x)
	}
}

// angleOut wraps an inverse trig function whose result is an angle.
func angleOut(fn func(float64) float64) func([]float64, AngleMode) float64 {
	return func(args []float64, angle AngleMode) float64 {
		y := fn(args[0])
		if angle == Degrees {
			y = y * 180 / math.Pi
		}
		return y
	}
}

// factorial multiplies 2..n. Non-integer arguments use the integer steps at or below n;
// negative arguments are undefined. The loop stops as soon as the product overflows.
func factorial(n float64) float64 {
	if math.IsNaN(n) || n < 0 {
		return math.NaN()
	}
	res := 1.0
	for i := 2.0; i <= n; i++ {
		res *= i
		if math.IsInf(res, 0) {
			break
		}
	}
	return res
}
