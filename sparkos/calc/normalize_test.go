package calc

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	n := NewNormalizer(DefaultRegistry())
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		in   string
		prev *float64
		want string
	}{
		{in: "1+2", want: "1+2"},
		{in: "2 + 3", want: "2+3"},
		{in: "3×4÷2", want: "3*4/2"},
		{in: "5−2", want: "5-2"},
		{in: "2pi", want: "2*pi"},
		{in: "2π", want: "2*pi"},
		{in: "2e", want: "2*e"},
		{in: "1.5pi", want: "1.5*pi"},
		{in: "2sin(30)", want: "2*sin(30)"},
		{in: "3pow10(2)", want: "3*pow10(2)"},
		{in: "(1+2)3", want: "(1+2)*3"},
		{in: "(1+2)cos(0)", want: "(1+2)*cos(0)"},
		{in: "√(4)", want: "sqrt(4)"},
		{in: "2^(1/3)", want: "2^(1/3)"},
		{in: "2(3)", want: "2(3)"},
		{in: "pi 2", want: "pi 2"},
		{in: "Ans+1", want: "0+1"},
		{in: "Ans×2", prev: f(7), want: "7*2"},
		{in: "Ans^2", prev: f(-3), want: "(-3)^2"},
		{in: "Ans+1", prev: f(1e10), want: "1.000000e10+1"},
		{in: "1/Ans", prev: f(1.0 / 3), want: "1/0.3333333333"},
		{in: "Anspi", prev: f(2), want: "2*pi"},
		{in: "2Ans", prev: f(7), want: "27"},
		{in: "Ans5", prev: f(1.5), want: "1.55"},
		{in: "1.5e-3", want: "1.5*e-3"},
		{in: "1.5e−3", want: "1.5*e-3"},
		{in: "1.000000e9+1", want: "1.000000e9+1"},
		{in: "2.500000e−10×2", want: "2.500000e-10*2"},
	}
	for _, tt := range tests {
		got, err := n.Normalize(tt.in, tt.prev)
		if err != nil {
			t.Fatalf("Normalize(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Normalize(%q)=%q, want %q", tt.in, got, tt.want)
		}
		again, err := n.Normalize(got, nil)
		if err != nil || again != got {
			t.Fatalf("Normalize(%q)=%q,%v, want idempotent %q", got, again, err, got)
		}
	}
}

func TestNormalizeErrors(t *testing.T) {
	n := NewNormalizer(DefaultRegistry())
	tests := []struct {
		in   string
		want error
	}{
		{in: "foo", want: ErrUnknownName},
		{in: "x+1", want: ErrUnknownName},
		{in: "pi(2)", want: ErrUnknownName},
		{in: "sin+1", want: ErrUnknownName},
		{in: "2$", want: ErrParse},
		{in: "1.2.3?", want: ErrParse},
	}
	for _, tt := range tests {
		_, err := n.Normalize(tt.in, nil)
		if !errors.Is(err, tt.want) {
			t.Fatalf("Normalize(%q) err=%v, want %v", tt.in, err, tt.want)
		}
	}
}

func TestNormalizeThenEvaluate(t *testing.T) {
	reg := DefaultRegistry()
	n := NewNormalizer(reg)
	ev := NewEvaluator(reg)
	tests := []struct {
		in   string
		want string
	}{
		{in: "2π", want: "6.2831853072"},
		{in: "3×4÷2", want: "6"},
		{in: "2sin(30)", want: "1"},
		{in: "(1+2)3", want: "9"},
		{in: "0.1+0.2", want: "0.3"},
		{in: "1÷3", want: "0.3333333333"},
	}
	for _, tt := range tests {
		src, err := n.Normalize(tt.in, nil)
		if err != nil {
			t.Fatalf("Normalize(%q) error: %v", tt.in, err)
		}
		v, err := ev.Evaluate(src, Mode{})
		if err != nil {
			t.Fatalf("Evaluate(%q) error: %v", src, err)
		}
		if got := FormatResult(v); got != tt.want {
			t.Fatalf("%q=%q, want %q", tt.in, got, tt.want)
		}
	}
}
