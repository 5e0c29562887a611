package calc

import (
	"fmt"
	"unicode/utf8"
)

// ErrorLabel replaces the expression label after a failed evaluation.
const ErrorLabel = "Error"

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithAngleMode sets the initial angle unit.
func WithAngleMode(a AngleMode) SessionOption {
	return func(s *Session) {
		s.mode.Angle = a
	}
}

// WithHistoryLimit bounds the history tape. Non-positive values keep DefaultHistoryLimit.
func WithHistoryLimit(n int) SessionOption {
	return func(s *Session) {
		s.historyLimit = n
	}
}

// WithEvaluator shares an Evaluator (and its parse cache) between sessions.
func WithEvaluator(e *Evaluator) SessionOption {
	return func(s *Session) {
		s.eval = e
	}
}

// Session is one calculator: input buffer, label, last result, modifier state and tape.
type Session struct {
	reg    *Registry
	eval   *Evaluator
	norm   *Normalizer
	keypad *Keypad

	buf     string
	label   string
	last    float64
	hasLast bool
	reset   bool

	mode         Mode
	historyLimit int
	tape         *Tape
}

func NewSession(reg *Registry, opts ...SessionOption) (*Session, error) {
	if reg == nil {
		reg = DefaultRegistry()
	}
	s := &Session{reg: reg, buf: "0", historyLimit: DefaultHistoryLimit}
	for _, opt := range opts {
		opt(s)
	}
	if s.eval == nil {
		s.eval = NewEvaluator(reg)
	}
	if s.eval.Registry() != reg {
		return nil, fmt.Errorf("calc session: evaluator uses a different registry")
	}
	kp, err := NewKeypad(reg)
	if err != nil {
		return nil, err
	}
	s.keypad = kp
	s.norm = NewNormalizer(reg)
	s.tape = NewTape(s.historyLimit)
	return s, nil
}

func isOperator(t string) bool {
	switch t {
	case "+", "-", "−", "×", "÷", "*", "/", "^", "%":
		return true
	}
	return false
}

// continuesZero reports whether t extends a lone "0" rather than replacing it.
func continuesZero(t string) bool { return t == "." }

// AppendToken adds typed text to the buffer. After an evaluation an operator continues
// from the shown result and anything else starts a fresh buffer.
func (s *Session) AppendToken(t string) {
	if t == "" {
		return
	}
	if s.reset {
		s.reset = false
		if isOperator(t) {
			s.buf += t
			return
		}
		s.buf = t
		return
	}
	if s.buf == "0" && !continuesZero(t) {
		s.buf = t
		return
	}
	s.buf += t
}

// PressKey inserts the text k resolves to under the current modifiers.
func (s *Session) PressKey(k Key) error {
	text, ok := s.keypad.Resolve(k, s.mode)
	if !ok {
		return fmt.Errorf("%w: key %q", ErrUnknownName, k)
	}
	s.AppendToken(text)
	return nil
}

func (s *Session) ToggleInverse()    { s.mode.ToggleInverse() }
func (s *Session) ToggleHyperbolic() { s.mode.ToggleHyperbolic() }
func (s *Session) ToggleAngleMode()  { s.mode.ToggleAngleMode() }

// Backspace removes the last character, or clears everything right after an evaluation.
func (s *Session) Backspace() {
	if s.reset {
		s.Clear()
		return
	}
	if utf8.RuneCountInString(s.buf) <= 1 {
		s.buf = "0"
		return
	}
	_, size := utf8.DecodeLastRuneInString(s.buf)
	s.buf = s.buf[:len(s.buf)-size]
}

// Clear resets the buffer and label. Mode, last result and tape are kept.
func (s *Session) Clear() {
	s.buf = "0"
	s.label = ""
	s.reset = false
}

// Evaluate normalizes and evaluates the buffer. On success the buffer shows the formatted
// result, the label freezes the expression and the tape records it. On failure the label
// reads ErrorLabel and the buffer is left as typed. Either way the next input starts fresh.
func (s *Session) Evaluate() (string, error) {
	raw := s.buf
	var prev *float64
	if s.hasLast {
		p := s.last
		prev = &p
	}

	v, err := s.evaluate(raw, prev)
	s.reset = true
	if err != nil {
		s.label = ErrorLabel
		return "", err
	}

	res := FormatResult(v)
	s.label = raw + " ="
	s.buf = res
	s.last = v
	s.hasLast = true
	s.tape.Record(raw, res)
	return res, nil
}

func (s *Session) evaluate(raw string, prev *float64) (float64, error) {
	src, err := s.norm.Normalize(raw, prev)
	if err != nil {
		return 0, err
	}
	return s.eval.Evaluate(src, s.mode)
}

// Replay types the result of the i-th newest history entry. Nothing is evaluated.
func (s *Session) Replay(i int) error {
	e, ok := s.tape.Entry(i)
	if !ok {
		return fmt.Errorf("%w: %d of %d", ErrNoEntry, i, s.tape.Len())
	}
	s.AppendToken(e.Result)
	return nil
}

func (s *Session) ClearHistory() { s.tape.Clear() }

func (s *Session) Display() string { return s.buf }
func (s *Session) Label() string   { return s.label }
func (s *Session) Mode() Mode      { return s.mode }

// History returns the tape entries, newest first.
func (s *Session) History() []HistoryEntry { return s.tape.Entries() }

// LastResult returns the most recent successful result.
func (s *Session) LastResult() (float64, bool) { return s.last, s.hasLast }
