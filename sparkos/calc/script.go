package calc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrScript = errors.New("script error")

var scriptWords = map[string]Event{
	"SHIFT":   {Kind: EventToggleInverse},
	"INV":     {Kind: EventToggleInverse},
	"HYP":     {Kind: EventToggleHyperbolic},
	"DRG":     {Kind: EventToggleAngle},
	"=":       {Kind: EventEvaluate},
	"C":       {Kind: EventClear},
	"DEL":     {Kind: EventBackspace},
	"TAPECLR": {Kind: EventClearHistory},
}

var scriptTokens = map[string]bool{
	"+": true, "-": true, "−": true, "*": true, "×": true, "/": true, "÷": true, "%": true,
	".": true, ",": true,
	"pi": true, "π": true, "e": true, ansName: true,
}

// ParseScript reads a key script: whitespace separated words, one keystroke each, with '#'
// starting a comment that runs to the end of the line.
//
//	3 + 4 =        # 7
//	× Ans =        # 49
//	SHIFT sin SHIFT 0.5 ) =   # asin(0.5)
func ParseScript(src string) ([]Event, error) {
	var out []Event
	for n, line := range strings.Split(src, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, w := range strings.Fields(line) {
			ev, err := scriptEvent(w)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrScript, n+1, err)
			}
			out = append(out, ev)
		}
	}
	return out, nil
}

func scriptEvent(w string) (Event, error) {
	if ev, ok := scriptWords[w]; ok {
		return ev, nil
	}
	for _, k := range Keys {
		if w == string(k) {
			return KeyEvent(k), nil
		}
	}
	if rest, ok := strings.CutPrefix(w, "REPLAY:"); ok {
		i, err := strconv.Atoi(rest)
		if err != nil || i < 0 {
			return Event{}, fmt.Errorf("bad replay index %q", rest)
		}
		return ReplayEvent(i), nil
	}
	if scriptTokens[w] || isScriptNumber(w) {
		return TokenEvent(w), nil
	}
	return Event{}, fmt.Errorf("unknown word %q", w)
}

func isScriptNumber(w string) bool {
	toks := tokenize(w)
	return len(toks) == 1 && toks[0].kind == tokNumber && toks[0].text == w
}
