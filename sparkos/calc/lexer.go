package calc

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokAns
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokCaret
	tokLParen
	tokRParen
	tokComma
	tokIllegal
)

const ansName = "Ans"

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

type lexer struct {
	s string
	i int
}

func (l *lexer) next() token {
	for l.i < len(l.s) {
		r, size := utf8.DecodeRuneInString(l.s[l.i:])
		if !unicode.IsSpace(r) {
			break
		}
		l.i += size
	}
	if l.i >= len(l.s) {
		return token{kind: tokEOF, pos: l.i}
	}

	start := l.i
	r, size := utf8.DecodeRuneInString(l.s[l.i:])
	single := func(kind tokenKind) token {
		l.i += size
		return token{kind: kind, text: l.s[start:l.i], pos: start}
	}

	switch r {
	case '+':
		return single(tokPlus)
	case '-', '−':
		return single(tokMinus)
	case '*', '×':
		return single(tokStar)
	case '/', '÷':
		return single(tokSlash)
	case '%':
		return single(tokPercent)
	case '^':
		return single(tokCaret)
	case '(':
		return single(tokLParen)
	case ')':
		return single(tokRParen)
	case ',':
		return single(tokComma)
	case 'π', '√':
		return single(tokIdent)
	}

	if strings.HasPrefix(l.s[l.i:], ansName) {
		l.i += len(ansName)
		return token{kind: tokAns, text: ansName, pos: start}
	}
	if isIdentStart(r) {
		l.i += size
		for l.i < len(l.s) {
			r, size := utf8.DecodeRuneInString(l.s[l.i:])
			if !isIdentContinue(r) || strings.HasPrefix(l.s[l.i:], ansName) {
				break
			}
			l.i += size
		}
		return token{kind: tokIdent, text: l.s[start:l.i], pos: start}
	}
	if r == '.' || isDigit(r) {
		l.i = scanNumber(l.s, l.i)
		txt := strings.Replace(l.s[start:l.i], "−", "-", 1)
		f, err := strconv.ParseFloat(txt, 64)
		if err != nil {
			return token{kind: tokIllegal, text: txt, pos: start}
		}
		return token{kind: tokNumber, text: txt, num: f, pos: start}
	}

	return single(tokIllegal)
}

// scanNumber returns the end of the number starting at i. An exponent suffix is only taken
// in the shape FormatResult writes, six fraction digits then e, an optional minus (ASCII or
// glyph) and digits, so formatted results such as "1.000000e9" read back as one number while
// typed text like "1.5e3" stays a number followed by the constant e.
func scanNumber(s string, i int) int {
	start := i
	for i < len(s) && isDigit(rune(s[i])) {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		frac := i
		for i < len(s) && isDigit(rune(s[i])) {
			i++
		}
		if i-frac == expFractionDigits && frac-1 > start {
			i = scanExponent(s, i)
		}
	}
	if i == start {
		return start + 1
	}
	return i
}

func scanExponent(s string, i int) int {
	if i >= len(s) || s[i] != 'e' {
		return i
	}
	j := i + 1
	if strings.HasPrefix(s[j:], "-") {
		j++
	} else if strings.HasPrefix(s[j:], "−") {
		j += len("−")
	}
	k := j
	for k < len(s) && isDigit(rune(s[k])) {
		k++
	}
	if k == j {
		return i
	}
	return k
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || (r < utf8.RuneSelf && unicode.IsLetter(r))
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

// tokenize splits s into tokens, excluding the trailing EOF.
func tokenize(s string) []token {
	l := lexer{s: s}
	var out []token
	for {
		t := l.next()
		if t.kind == tokEOF {
			return out
		}
		out = append(out, t)
	}
}
