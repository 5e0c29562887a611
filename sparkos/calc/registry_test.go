package calc

import (
	"math"
	"testing"
)

func TestRegistryResolve(t *testing.T) {
	reg := DefaultRegistry()
	tests := []struct {
		base string
		mode Mode
		want string
	}{
		{base: "sin", mode: Mode{}, want: "sin"},
		{base: "sin", mode: Mode{Inverse: true}, want: "asin"},
		{base: "sin", mode: Mode{Hyperbolic: true}, want: "sinh"},
		{base: "sin", mode: Mode{Inverse: true, Hyperbolic: true}, want: "asin"},
		{base: "cos", mode: Mode{Hyperbolic: true}, want: "cosh"},
		{base: "tan", mode: Mode{Inverse: true}, want: "atan"},
		{base: "ln", mode: Mode{Inverse: true}, want: "exp"},
		{base: "ln", mode: Mode{Hyperbolic: true}, want: "ln"},
		{base: "log", mode: Mode{Inverse: true}, want: "pow10"},
		{base: "sq", mode: Mode{Inverse: true}, want: "sqrt"},
		{base: "sqrt", mode: Mode{Inverse: true}, want: "cb"},
		{base: "abs", mode: Mode{Inverse: true, Hyperbolic: true}, want: "abs"},
	}
	for _, tt := range tests {
		e, ok := reg.Resolve(tt.base, tt.mode)
		if !ok {
			t.Fatalf("Resolve(%q, %+v) not found", tt.base, tt.mode)
		}
		if e.Name != tt.want {
			t.Fatalf("Resolve(%q, %+v)=%q, want %q", tt.base, tt.mode, e.Name, tt.want)
		}
	}
	if _, ok := reg.Resolve("nope", Mode{}); ok {
		t.Fatalf("Resolve(nope) found an entry")
	}
}

func TestNewRegistryRejectsBadCatalogue(t *testing.T) {
	id := func(args []float64, _ AngleMode) float64 { return args[0] }
	tests := []struct {
		name    string
		entries []Entry
	}{
		{name: "duplicate", entries: []Entry{{Name: "f", Arity: 1, Fn: id}, {Name: "f", Arity: 1, Fn: id}}},
		{name: "arity", entries: []Entry{{Name: "f", Arity: 3, Fn: id}}},
		{name: "no fn", entries: []Entry{{Name: "f", Arity: 1}}},
		{name: "empty name", entries: []Entry{{Name: " ", Arity: 1, Fn: id}}},
		{name: "unknown alias", entries: []Entry{{Name: "f", Arity: 1, Fn: id, Inverse: "g"}}},
		{name: "alias arity", entries: []Entry{{Name: "f", Arity: 1, Fn: id, Hyperbolic: "k"}, {Name: "k", Arity: 0, Fn: id}}},
	}
	for _, tt := range tests {
		if _, err := NewRegistry(tt.entries); err == nil {
			t.Fatalf("%s: NewRegistry succeeded, want error", tt.name)
		}
	}
}

func TestRegistryAngleModes(t *testing.T) {
	reg := DefaultRegistry()
	tests := []struct {
		name  string
		arg   float64
		angle AngleMode
		want  float64
	}{
		{name: "sin", arg: 30, angle: Degrees, want: 0.5},
		{name: "sin", arg: math.Pi / 6, angle: Radians, want: 0.5},
		{name: "cos", arg: 180, angle: Degrees, want: -1},
		{name: "asin", arg: 1, angle: Degrees, want: 90},
		{name: "asin", arg: 1, angle: Radians, want: math.Pi / 2},
		{name: "atan", arg: 1, angle: Degrees, want: 45},
		{name: "sinh", arg: 0, angle: Degrees, want: 0},
		{name: "cosh", arg: 0, angle: Degrees, want: 1},
	}
	for _, tt := range tests {
		e, _ := reg.Lookup(tt.name)
		got := e.Fn([]float64{tt.arg}, tt.angle)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("%s(%v) in %v=%v, want %v", tt.name, tt.arg, tt.angle, got, tt.want)
		}
	}
}

func TestFactorial(t *testing.T) {
	tests := []struct {
		n    float64
		want float64
	}{
		{n: 0, want: 1},
		{n: 1, want: 1},
		{n: 5, want: 120},
		{n: 10, want: 3628800},
		{n: 3.5, want: 6},
	}
	for _, tt := range tests {
		if got := factorial(tt.n); got != tt.want {
			t.Fatalf("factorial(%v)=%v, want %v", tt.n, got, tt.want)
		}
	}
	if got := factorial(-1); !math.IsNaN(got) {
		t.Fatalf("factorial(-1)=%v, want NaN", got)
	}
	if got := factorial(171); !math.IsInf(got, 1) {
		t.Fatalf("factorial(171)=%v, want +Inf", got)
	}
}

func TestKeypadTable(t *testing.T) {
	kp, err := NewKeypad(DefaultRegistry())
	if err != nil {
		t.Fatalf("NewKeypad: %v", err)
	}
	inv := Mode{Inverse: true}
	hyp := Mode{Hyperbolic: true}
	both := Mode{Inverse: true, Hyperbolic: true}
	tests := []struct {
		key  Key
		mode Mode
		want string
	}{
		{key: KeySin, mode: Mode{}, want: "sin("},
		{key: KeySin, mode: inv, want: "asin("},
		{key: KeySin, mode: hyp, want: "sinh("},
		{key: KeySin, mode: both, want: "asin("},
		{key: KeyTan, mode: hyp, want: "tanh("},
		{key: KeyLn, mode: inv, want: "exp("},
		{key: KeyLn, mode: hyp, want: "ln("},
		{key: KeyLog, mode: inv, want: "pow10("},
		{key: KeySquare, mode: Mode{}, want: "sq("},
		{key: KeySquare, mode: inv, want: "sqrt("},
		{key: KeyRoot, mode: Mode{}, want: "sqrt("},
		{key: KeyRoot, mode: inv, want: "cb("},
		{key: KeyPower, mode: Mode{}, want: "^"},
		{key: KeyPower, mode: inv, want: "^(1/"},
		{key: KeyOpen, mode: inv, want: "inv("},
		{key: KeyClose, mode: inv, want: "fact("},
		{key: KeyClose, mode: hyp, want: ")"},
	}
	for _, tt := range tests {
		got, ok := kp.Resolve(tt.key, tt.mode)
		if !ok || got != tt.want {
			t.Fatalf("Resolve(%q, %+v)=%q,%v, want %q", tt.key, tt.mode, got, ok, tt.want)
		}
	}
}
