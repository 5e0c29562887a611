package calc

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrParse       = errors.New("parse error")
	ErrUnknownName = errors.New("unknown name")
	ErrArity       = errors.New("wrong argument count")
	ErrDomain      = errors.New("math error")
)

type node interface {
	Eval(angle AngleMode) (float64, error)
}

type nodeNumber struct {
	v float64
}

type nodeConst struct {
	entry *Entry
}

type nodeCall struct {
	entry *Entry
	args  []node
}

type nodeUnary struct {
	op byte
	x  node
}

type nodeBinary struct {
	op    byte
	left  node
	right node
}

// nodeGroup is an explicit parenthesized subexpression.
type nodeGroup struct {
	x node
}

func (n nodeNumber) Eval(AngleMode) (float64, error) { return n.v, nil }

func (n nodeConst) Eval(angle AngleMode) (float64, error) {
	return finite(n.entry.Name, n.entry.Fn(nil, angle))
}

func (n nodeCall) Eval(angle AngleMode) (float64, error) {
	if len(n.args) != n.entry.Arity {
		return 0, fmt.Errorf("%w: %s expects %d, got %d", ErrArity, n.entry.Name, n.entry.Arity, len(n.args))
	}
	args := make([]float64, len(n.args))
	for i, a := range n.args {
		v, err := a.Eval(angle)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	return finite(n.entry.Name, n.entry.Fn(args, angle))
}

func (n nodeUnary) Eval(angle AngleMode) (float64, error) {
	x, err := n.x.Eval(angle)
	if err != nil {
		return 0, err
	}
	if n.op == '-' {
		return -x, nil
	}
	return x, nil
}

func (n nodeBinary) Eval(angle AngleMode) (float64, error) {
	a, err := n.left.Eval(angle)
	if err != nil {
		return 0, err
	}
	b, err := n.right.Eval(angle)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case '+':
		return finite("+", a+b)
	case '-':
		return finite("-", a-b)
	case '*':
		return finite("*", a*b)
	case '/':
		if b == 0 {
			return 0, fmt.Errorf("%w: division by zero", ErrDomain)
		}
		return finite("/", a/b)
	case '%':
		if b == 0 {
			return 0, fmt.Errorf("%w: remainder by zero", ErrDomain)
		}
		return finite("%", math.Mod(a, b))
	case '^':
		return finite("^", math.Pow(a, b))
	default:
		return 0, fmt.Errorf("%w: unknown operator %q", ErrParse, n.op)
	}
}

func (n nodeGroup) Eval(angle AngleMode) (float64, error) { return n.x.Eval(angle) }

func finite(op string, v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s: result is not finite", ErrDomain, op)
	}
	return v, nil
}

// Expr is a parsed expression bound to the registry it was compiled against.
type Expr struct {
	src  string
	root node
}

// Source returns the normalized text the expression was parsed from.
func (e *Expr) Source() string { return e.src }

// Eval evaluates the expression. Trigonometric entries use angle.
func (e *Expr) Eval(angle AngleMode) (float64, error) {
	return e.root.Eval(angle)
}

func (e *Expr) String() string { return nodeString(e.root) }
