package calc

import "fmt"

// Key identifies a modifier-sensitive keypad key.
type Key string

const (
	KeySin    Key = "sin"
	KeyCos    Key = "cos"
	KeyTan    Key = "tan"
	KeyLn     Key = "ln"
	KeyLog    Key = "log"
	KeySquare Key = "sq"
	KeyRoot   Key = "sqrt"
	KeyPower  Key = "^"
	KeyOpen   Key = "("
	KeyClose  Key = ")"
)

// Keys lists every modifier-sensitive key in keypad order.
var Keys = []Key{KeySin, KeyCos, KeyTan, KeyLn, KeyLog, KeySquare, KeyRoot, KeyPower, KeyOpen, KeyClose}

type keyVariant struct {
	key        Key
	inverse    bool
	hyperbolic bool
}

// literalKeys are keys whose text is not a registry call. Index 0 is the base text, 1 the
// inverse text; they have no hyperbolic variant.
var literalKeys = map[Key][2]string{
	KeyPower: {"^", "^(1/"},
	KeyOpen:  {"(", "inv("},
	KeyClose: {")", "fact("},
}

// Keypad is the precomputed (key, inverse, hyperbolic) → inserted text table.
type Keypad struct {
	table map[keyVariant]string
}

// NewKeypad builds the keypad table against reg. Every function key must name a registry
// function and every literal alias must resolve.
func NewKeypad(reg *Registry) (*Keypad, error) {
	kp := &Keypad{table: make(map[keyVariant]string, len(Keys)*4)}
	for _, k := range Keys {
		for _, inv := range []bool{false, true} {
			for _, hyp := range []bool{false, true} {
				text, err := keyText(reg, k, Mode{Inverse: inv, Hyperbolic: hyp})
				if err != nil {
					return nil, err
				}
				kp.table[keyVariant{key: k, inverse: inv, hyperbolic: hyp}] = text
			}
		}
	}
	return kp, nil
}

func keyText(reg *Registry, k Key, m Mode) (string, error) {
	if lit, ok := literalKeys[k]; ok {
		if m.Inverse {
			if err := checkLiteral(reg, lit[1]); err != nil {
				return "", fmt.Errorf("calc keypad: key %q: %w", k, err)
			}
			return lit[1], nil
		}
		return lit[0], nil
	}
	e, ok := reg.Resolve(string(k), m)
	if !ok {
		return "", fmt.Errorf("calc keypad: key %q has no registry entry", k)
	}
	if e.Arity == 0 {
		return "", fmt.Errorf("calc keypad: key %q resolves to constant %q", k, e.Name)
	}
	return e.Name + "(", nil
}

func checkLiteral(reg *Registry, text string) error {
	n := len(text)
	if n < 2 || text[n-1] != '(' {
		return nil
	}
	name := text[:n-1]
	if _, ok := reg.Lookup(name); !ok {
		return fmt.Errorf("unknown function %q", name)
	}
	return nil
}

// Resolve returns the text the key inserts under the given modifiers.
func (kp *Keypad) Resolve(k Key, m Mode) (string, bool) {
	text, ok := kp.table[keyVariant{key: k, inverse: m.Inverse, hyperbolic: m.Hyperbolic}]
	return text, ok
}
