package calc

import (
	"fmt"
	"strings"
)

var glyphNames = map[string]string{
	"π": "pi",
	"√": "sqrt",
}

// Normalizer rewrites raw buffer text into canonical expression text: Ans substituted,
// display glyphs replaced by ASCII operators and names, implicit multiplication made
// explicit, and every identifier checked against the registry.
//
// Names are not remapped by the modifier flags here; that happens when a key is pressed (see
// Keypad), so the buffer already holds the resolved name.
type Normalizer struct {
	reg *Registry
}

func NewNormalizer(reg *Registry) *Normalizer {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Normalizer{reg: reg}
}

// Normalize rewrites raw. prev is the last successful result, or nil when there is none,
// in which case Ans reads as 0. Ans is replaced as text, so digits typed next to it join
// the result ("2Ans" with Ans 7 reads 27). Normalizing already-normalized text returns it
// unchanged.
func (n *Normalizer) Normalize(raw string, prev *float64) (string, error) {
	toks := tokenize(substituteAns(raw, prev))
	for _, t := range toks {
		if t.kind == tokIllegal {
			return "", fmt.Errorf("%w: unexpected %q at %d", ErrParse, t.text, t.pos)
		}
	}

	toks = canonicalGlyphs(toks)
	toks = implicitMultiply(toks)
	if err := n.qualify(toks); err != nil {
		return "", err
	}
	return joinTokens(toks), nil
}

func substituteAns(raw string, prev *float64) string {
	if !strings.Contains(raw, ansName) {
		return raw
	}
	text := "0"
	if prev != nil {
		text = FormatResult(*prev)
		if *prev < 0 {
			text = "(" + text + ")"
		}
	}
	return strings.ReplaceAll(raw, ansName, text)
}

func canonicalGlyphs(toks []token) []token {
	for i, t := range toks {
		switch t.kind {
		case tokPlus, tokMinus, tokStar, tokSlash, tokPercent, tokCaret:
			toks[i].text = string(opByte(t.kind))
		case tokIdent:
			if name, ok := glyphNames[t.text]; ok {
				toks[i].text = name
			}
		}
	}
	return toks
}

// implicitMultiply inserts '*' for the two adjacency patterns a keypad produces: a number
// followed by pi, e or a named call ("2pi", "3sin("), and a closing parenthesis followed by
// a number or a named call (")2", ")cos(").
func implicitMultiply(toks []token) []token {
	out := make([]token, 0, len(toks))
	for i, t := range toks {
		out = append(out, t)
		if i+1 >= len(toks) {
			continue
		}
		next := toks[i+1]
		var after *token
		if i+2 < len(toks) {
			after = &toks[i+2]
		}
		call := next.kind == tokIdent && len(next.text) >= 2 && after != nil && after.kind == tokLParen
		insert := false
		switch t.kind {
		case tokNumber:
			insert = call || (next.kind == tokIdent && (next.text == "pi" || next.text == "e"))
		case tokRParen:
			insert = call || next.kind == tokNumber
		}
		if insert {
			out = append(out, token{kind: tokStar, text: "*", pos: next.pos})
		}
	}
	return out
}

func (n *Normalizer) qualify(toks []token) error {
	for i, t := range toks {
		if t.kind != tokIdent {
			continue
		}
		e, ok := n.reg.Lookup(t.text)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownName, t.text)
		}
		opensCall := i+1 < len(toks) && toks[i+1].kind == tokLParen
		switch {
		case opensCall && e.Arity == 0:
			return fmt.Errorf("%w: %s is a constant, not a function", ErrUnknownName, t.text)
		case !opensCall && e.Arity != 0:
			return fmt.Errorf("%w: %s is a function, not a constant", ErrUnknownName, t.text)
		}
	}
	return nil
}

func joinTokens(toks []token) string {
	var b strings.Builder
	for i, t := range toks {
		if i > 0 && wordLike(toks[i-1]) && wordLike(t) {
			b.WriteByte(' ')
		}
		b.WriteString(t.text)
	}
	return b.String()
}

func wordLike(t token) bool { return t.kind == tokNumber || t.kind == tokIdent }
