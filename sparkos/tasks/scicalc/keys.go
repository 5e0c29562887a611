package scicalc

import (
	"errors"

	"sparkcalc/hal"
	"sparkcalc/sparkos/calc"
	"sparkcalc/sparkos/proto"
)

// Letters stand in for the keypad's function and modifier keys; digits and operators are
// typed as they read.
var runeEvents = map[rune]calc.Event{
	'+': calc.TokenEvent("+"),
	'-': calc.TokenEvent("−"),
	'*': calc.TokenEvent("×"),
	'/': calc.TokenEvent("÷"),
	'%': calc.TokenEvent("%"),
	'.': calc.TokenEvent("."),
	',': calc.TokenEvent(","),
	'^': calc.KeyEvent(calc.KeyPower),
	'(': calc.KeyEvent(calc.KeyOpen),
	')': calc.KeyEvent(calc.KeyClose),

	'p': calc.TokenEvent("π"),
	'e': calc.TokenEvent("e"),
	'a': calc.TokenEvent("Ans"),

	's': calc.KeyEvent(calc.KeySin),
	'c': calc.KeyEvent(calc.KeyCos),
	't': calc.KeyEvent(calc.KeyTan),
	'l': calc.KeyEvent(calc.KeyLn),
	'g': calc.KeyEvent(calc.KeyLog),
	'q': calc.KeyEvent(calc.KeySquare),
	'r': calc.KeyEvent(calc.KeyRoot),

	'i': {Kind: calc.EventToggleInverse},
	'h': {Kind: calc.EventToggleHyperbolic},
	'd': {Kind: calc.EventToggleAngle},
	'=': {Kind: calc.EventEvaluate},
}

var codeEvents = map[hal.KeyCode]calc.Event{
	hal.KeyEnter:     {Kind: calc.EventEvaluate},
	hal.KeyBackspace: {Kind: calc.EventBackspace},
	hal.KeyEscape:    {Kind: calc.EventClear},
	hal.KeyDelete:    {Kind: calc.EventClear},
}

// keyEvent maps one pressed key to a calculator event.
func keyEvent(code hal.KeyCode, r rune) (calc.Event, bool) {
	if r != 0 {
		if r >= '0' && r <= '9' {
			return calc.TokenEvent(string(r)), true
		}
		ev, ok := runeEvents[r]
		return ev, ok
	}
	ev, ok := codeEvents[code]
	return ev, ok
}

// errCode classifies an evaluation failure for the log.
func errCode(err error) proto.ErrCode {
	switch {
	case errors.Is(err, calc.ErrParse):
		return proto.ErrSyntax
	case errors.Is(err, calc.ErrUnknownName):
		return proto.ErrUnknownName
	case errors.Is(err, calc.ErrArity):
		return proto.ErrArity
	case errors.Is(err, calc.ErrDomain):
		return proto.ErrDomain
	default:
		return proto.ErrInternal
	}
}
