package calc

import (
	"strconv"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestTapeKeepsNewestFirst(t *testing.T) {
	tape := NewTape(DefaultHistoryLimit)
	for i := 0; i < 25; i++ {
		tape.Record(strconv.Itoa(i), strconv.Itoa(i*i))
	}
	if tape.Len() != 20 {
		t.Fatalf("Len()=%d, want 20", tape.Len())
	}
	entries := tape.Entries()
	for i, e := range entries {
		want := strconv.Itoa(24 - i)
		if e.Expression != want {
			t.Fatalf("entries[%d]=%q, want %q\n%s", i, e.Expression, want, spew.Sdump(entries))
		}
	}

	entries[0].Result = "mutated"
	if e, _ := tape.Entry(0); e.Result != "576" {
		t.Fatalf("Entries() aliases the tape: %+v", e)
	}
}

func TestTapeEntryAndClear(t *testing.T) {
	tape := NewTape(0)
	if tape.Limit() != DefaultHistoryLimit {
		t.Fatalf("Limit()=%d, want %d", tape.Limit(), DefaultHistoryLimit)
	}
	tape.Record("1+1", "2")
	tape.Record("2+2", "4")
	if e, ok := tape.Entry(1); !ok || e.Result != "2" {
		t.Fatalf("Entry(1)=%+v,%v, want result 2", e, ok)
	}
	if _, ok := tape.Entry(2); ok {
		t.Fatalf("Entry(2) found past the end")
	}
	if _, ok := tape.Entry(-1); ok {
		t.Fatalf("Entry(-1) found")
	}
	tape.Clear()
	if tape.Len() != 0 {
		t.Fatalf("Len() after Clear=%d", tape.Len())
	}
}

func TestTapeSmallLimit(t *testing.T) {
	tape := NewTape(2)
	tape.Record("a", "1")
	tape.Record("b", "2")
	tape.Record("c", "3")
	got := tape.Entries()
	if len(got) != 2 || got[0].Expression != "c" || got[1].Expression != "b" {
		t.Fatalf("entries=%s", spew.Sdump(got))
	}
}
