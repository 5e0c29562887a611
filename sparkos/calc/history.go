package calc

import "errors"

// ErrNoEntry reports a history index outside the tape.
var ErrNoEntry = errors.New("no such history entry")

// DefaultHistoryLimit is the number of evaluations the tape keeps.
const DefaultHistoryLimit = 20

// HistoryEntry is one successful evaluation: the raw buffer text and its formatted result.
type HistoryEntry struct {
	Expression string
	Result     string
}

// Tape is a bounded evaluation log, newest first.
type Tape struct {
	limit   int
	entries []HistoryEntry
}

func NewTape(limit int) *Tape {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &Tape{limit: limit, entries: make([]HistoryEntry, 0, limit)}
}

// Record prepends an entry, dropping the oldest once the tape is full.
func (t *Tape) Record(expr, result string) {
	e := HistoryEntry{Expression: expr, Result: result}
	if len(t.entries) < t.limit {
		t.entries = append(t.entries, HistoryEntry{})
	}
	copy(t.entries[1:], t.entries[:len(t.entries)-1])
	t.entries[0] = e
}

// Entries returns a copy of the tape, newest first.
func (t *Tape) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Entry returns the i-th newest entry.
func (t *Tape) Entry(i int) (HistoryEntry, bool) {
	if i < 0 || i >= len(t.entries) {
		return HistoryEntry{}, false
	}
	return t.entries[i], true
}

func (t *Tape) Len() int   { return len(t.entries) }
func (t *Tape) Limit() int { return t.limit }

func (t *Tape) Clear() { t.entries = t.entries[:0] }
