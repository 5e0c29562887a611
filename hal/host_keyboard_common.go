//go:build !tinygo

package hal

import "sync"

type hostKeyboard struct {
	mu     sync.Mutex
	ch     chan KeyEvent
	closed bool
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 64)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

// inject queues ev without blocking. It reports false when the queue is full or closed.
func (k *hostKeyboard) inject(ev KeyEvent) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return false
	}
	select {
	case k.ch <- ev:
		return true
	default:
		return false
	}
}

func (k *hostKeyboard) close() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return
	}
	k.closed = true
	close(k.ch)
}
