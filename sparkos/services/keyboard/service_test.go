package keyboard

import (
	"fmt"
	"testing"
	"time"

	"sparkcalc/hal"
	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

type fakeKeyboard struct{ ch chan hal.KeyEvent }

func (k fakeKeyboard) Events() <-chan hal.KeyEvent { return k.ch }

type fakeInput struct{ kbd fakeKeyboard }

func (in fakeInput) Keyboard() hal.Keyboard { return in.kbd }

func decodeAll(t *testing.T, ctx *kernel.Context, ep kernel.Capability) []hal.KeyEvent {
	t.Helper()
	var out []hal.KeyEvent
	for {
		msg, ok := ctx.TryRecv(ep)
		if !ok {
			return out
		}
		if proto.Kind(msg.Kind) != proto.MsgKey {
			t.Fatalf("kind=%s, want key", proto.Kind(msg.Kind))
		}
		code, press, r, ok := proto.DecodeKeyPayload(msg.Payload())
		if !ok {
			t.Fatalf("bad key payload %v", msg.Payload())
		}
		out = append(out, hal.KeyEvent{Code: hal.KeyCode(code), Press: press, Rune: r})
	}
}

func TestServiceForwardsPressesAndDrainsOnClose(t *testing.T) {
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	in := fakeInput{kbd: fakeKeyboard{ch: make(chan hal.KeyEvent, 8)}}

	in.kbd.ch <- hal.KeyEvent{Press: true, Rune: '3'}
	in.kbd.ch <- hal.KeyEvent{Code: hal.KeyEnter, Press: true}
	in.kbd.ch <- hal.KeyEvent{Code: hal.KeyEnter, Press: false}
	in.kbd.ch <- hal.KeyEvent{Press: true, Rune: 'π'}
	close(in.kbd.ch)

	id, err := k.AddTask(New(in, ep.Restrict(kernel.RightSend), kernel.Capability{}))
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	k.WaitTask(id)

	got := decodeAll(t, k.HostContext(), ep)
	want := []hal.KeyEvent{
		{Press: true, Rune: '3'},
		{Code: hal.KeyEnter, Press: true},
		{Press: true, Rune: 'π'},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d=%+v, want %+v", i, got[i], want[i])
		}
	}
	k.Shutdown()
}

func TestServiceRepeatsHeldBackspace(t *testing.T) {
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	in := fakeInput{kbd: fakeKeyboard{ch: make(chan hal.KeyEvent, 8)}}

	id, _ := k.AddTask(New(in, ep.Restrict(kernel.RightSend), kernel.Capability{}))
	in.kbd.ch <- hal.KeyEvent{Code: hal.KeyBackspace, Press: true}

	ctx := k.HostContext()
	deadline := time.After(2 * time.Second)
	var n int
	for tick := uint64(1); n < 3; tick++ {
		k.TickTo(tick * 50)
		select {
		case <-deadline:
			t.Fatalf("saw %d backspaces, want at least 3", n)
		default:
		}
		n += len(decodeAll(t, ctx, ep))
		time.Sleep(time.Millisecond)
	}

	in.kbd.ch <- hal.KeyEvent{Code: hal.KeyBackspace, Press: false}
	close(in.kbd.ch)
	k.WaitTask(id)
	k.Shutdown()
}

func TestServiceReportsOverflow(t *testing.T) {
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	const presses = 300
	in := fakeInput{kbd: fakeKeyboard{ch: make(chan hal.KeyEvent, presses)}}
	for i := 0; i < presses; i++ {
		in.kbd.ch <- hal.KeyEvent{Press: true, Rune: '1'}
	}
	close(in.kbd.ch)

	id, err := k.AddTask(New(in, ep.Restrict(kernel.RightSend), logEP.Restrict(kernel.RightSend)))
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	k.WaitTask(id)

	ctx := k.HostContext()
	delivered := len(decodeAll(t, ctx, ep))
	dropped := 0
	for {
		msg, ok := ctx.TryRecv(logEP)
		if !ok {
			break
		}
		code, ref, detail, ok := proto.DecodeErrorPayload(msg.Payload())
		if !ok || code != proto.ErrOverflow || ref != proto.MsgKey {
			t.Fatalf("log message code=%s ref=%s ok=%v", code, ref, ok)
		}
		var n int
		if _, err := fmt.Sscanf(string(detail), "dropped %d keys", &n); err != nil {
			t.Fatalf("detail %q: %v", detail, err)
		}
		dropped += n
	}
	if dropped == 0 || delivered+dropped+maxPending != presses {
		t.Fatalf("delivered=%d dropped=%d pending=%d, want sum %d", delivered, dropped, maxPending, presses)
	}
	k.Shutdown()
}
