package keyboard

import (
	"fmt"
	"time"

	"sparkcalc/hal"
	logclient "sparkcalc/sparkos/client/logger"
	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

const (
	// Ticks are 1ms on host.
	repeatDelayTicks = 350
	repeatRateTicks  = 60

	maxPending   = 256
	drainRetries = 1000
)

// Service forwards HAL keyboard events to a task endpoint as MsgKey messages and
// auto-repeats held editing keys. Keys dropped on overflow are reported to logCap.
// It returns once the keyboard channel is closed and every pending key has been delivered.
type Service struct {
	in     hal.Input
	outCap kernel.Capability
	logCap kernel.Capability

	dropped int

	events  <-chan hal.KeyEvent
	pending [][]byte

	held           bool
	heldEvent      hal.KeyEvent
	nextRepeatTick uint64
}

func New(in hal.Input, outCap, logCap kernel.Capability) *Service {
	return &Service{in: in, outCap: outCap, logCap: logCap}
}

func (s *Service) Run(ctx *kernel.Context) {
	if ctx == nil || s.in == nil {
		return
	}
	kbd := s.in.Keyboard()
	if kbd == nil {
		return
	}
	s.events = kbd.Events()
	if s.events == nil {
		return
	}

	done := make(chan struct{})
	defer close(done)

	tickCh := make(chan uint64, 16)
	go func() {
		last := ctx.NowTick()
		for {
			next, ok := ctx.WaitTick(last)
			if !ok {
				return
			}
			last = next
			select {
			case tickCh <- last:
			case <-done:
				return
			default:
			}
		}
	}()

	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				s.drain(ctx)
				return
			}
			s.handleKeyEvent(ctx, ev)
		case tick := <-tickCh:
			s.handleRepeat(tick)
			s.flush(ctx)
		}
	}
}

func (s *Service) handleKeyEvent(ctx *kernel.Context, ev hal.KeyEvent) {
	if !ev.Press {
		if s.held && ev.Code == s.heldEvent.Code {
			s.held = false
			s.nextRepeatTick = 0
		}
		return
	}

	s.queue(ev)
	s.flush(ctx)

	if !repeatableKey(ev) {
		return
	}
	s.held = true
	s.heldEvent = ev
	s.nextRepeatTick = ctx.NowTick() + repeatDelayTicks
}

func (s *Service) handleRepeat(tick uint64) {
	if !s.held || tick < s.nextRepeatTick {
		return
	}
	s.queue(s.heldEvent)
	s.nextRepeatTick = tick + repeatRateTicks
}

func (s *Service) queue(ev hal.KeyEvent) {
	if len(s.pending) >= maxPending {
		s.dropped++
		return
	}
	s.pending = append(s.pending, proto.KeyPayload(uint16(ev.Code), ev.Press, ev.Rune))
}

func (s *Service) flush(ctx *kernel.Context) {
	if s.dropped > 0 && s.logCap.Valid() {
		detail := fmt.Sprintf("dropped %d keys", s.dropped)
		if logclient.LogError(ctx, s.logCap, proto.ErrOverflow, proto.MsgKey, detail) == kernel.SendOK {
			s.dropped = 0
		}
	}
	for len(s.pending) > 0 {
		if !s.outCap.Valid() {
			s.pending = nil
			return
		}
		res := ctx.SendToCapResult(s.outCap, uint16(proto.MsgKey), s.pending[0], kernel.Capability{})
		switch res {
		case kernel.SendOK:
			s.pending = s.pending[1:]
		case kernel.SendErrQueueFull:
			return
		default:
			s.pending = nil
			return
		}
	}
}

// drain delivers what is left after the keyboard closed. Ticks may have stopped by then,
// so it backs off on wall time instead.
func (s *Service) drain(ctx *kernel.Context) {
	for i := 0; i < drainRetries && len(s.pending) > 0; i++ {
		s.flush(ctx)
		if len(s.pending) > 0 {
			time.Sleep(time.Millisecond)
		}
	}
}

func repeatableKey(ev hal.KeyEvent) bool {
	if ev.Rune != 0 {
		return false
	}
	switch ev.Code {
	case hal.KeyUp, hal.KeyDown, hal.KeyBackspace:
		return true
	default:
		return false
	}
}
