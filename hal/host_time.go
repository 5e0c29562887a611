//go:build !tinygo

package hal

import "time"

// tickDuration is the host tick period. Key repeat and the kernel clock count these.
const tickDuration = time.Millisecond

// maxCatchUp bounds the ticks emitted by one step after the host stalls (window dragged,
// process stopped), so held keys do not fire a burst of repeats on resume.
const maxCatchUp = 100

type hostTime struct {
	ch  chan uint64
	seq uint64
	now func() time.Time

	last    time.Time
	pending time.Duration
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024), now: time.Now}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// step emits the ticks elapsed since the previous call. The first call emits first ticks.
func (t *hostTime) step(first uint64) {
	now := t.now()
	if t.last.IsZero() {
		t.last = now
		t.emit(first)
		return
	}

	t.pending += now.Sub(t.last)
	t.last = now

	n := uint64(t.pending / tickDuration)
	if n == 0 {
		return
	}
	t.pending %= tickDuration
	if n > maxCatchUp {
		n = maxCatchUp
	}
	t.emit(n)
}

func (t *hostTime) emit(n uint64) {
	for ; n > 0; n-- {
		t.seq++
		select {
		case t.ch <- t.seq:
		default:
		}
	}
}
