package scicalc

import (
	"strings"
	"sync"

	"sparkcalc/hal"
	"sparkcalc/sparkos/calc"
	logclient "sparkcalc/sparkos/client/logger"
	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

// Snapshot is what the calculator shows at one moment.
type Snapshot struct {
	Label   string
	Display string
	Mode    calc.Mode
	History []calc.HistoryEntry

	// Drawer is set while the history list is open; Selected indexes History.
	Drawer   bool
	Selected int
}

// String renders the snapshot as plain text: indicators, label, buffer, then the open
// history drawer if any.
func (s Snapshot) String() string {
	var b strings.Builder
	b.WriteString(indicators(s.Mode))
	b.WriteByte('\n')
	b.WriteString(s.Label)
	b.WriteByte('\n')
	b.WriteString(s.Display)
	b.WriteByte('\n')
	if !s.Drawer {
		return b.String()
	}
	if len(s.History) == 0 {
		b.WriteString("  (no history)\n")
		return b.String()
	}
	for i, e := range s.History {
		if i == s.Selected {
			b.WriteString("> ")
		} else {
			b.WriteString("  ")
		}
		b.WriteString(e.Expression)
		b.WriteString(" = ")
		b.WriteString(e.Result)
		b.WriteByte('\n')
	}
	return b.String()
}

func indicators(m calc.Mode) string {
	parts := []string{m.Angle.String()}
	if m.Inverse {
		parts = append(parts, "INV")
	}
	if m.Hyperbolic {
		parts = append(parts, "HYP")
	}
	return strings.Join(parts, " ")
}

// Task runs one calculator session. It reads MsgKey messages from its endpoint, reports
// evaluations and failures to the logger service and draws itself on the framebuffer.
// It returns once its endpoint is closed.
type Task struct {
	disp   hal.Display
	ep     kernel.Capability
	logCap kernel.Capability
	sess   *calc.Session

	d *fbDisplay

	drawer bool
	sel    int

	mu   sync.Mutex
	snap Snapshot
}

func New(disp hal.Display, ep, logCap kernel.Capability, sess *calc.Session) *Task {
	t := &Task{disp: disp, ep: ep, logCap: logCap, sess: sess}
	t.publish()
	return t
}

func (t *Task) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(t.ep)
	if !ok || t.sess == nil {
		return
	}
	if t.disp != nil {
		if fb := t.disp.Framebuffer(); fb != nil {
			t.d = newFBDisplay(fb)
		}
	}
	t.render()

	for msg := range ch {
		if proto.Kind(msg.Kind) != proto.MsgKey {
			continue
		}
		code, press, r, ok := proto.DecodeKeyPayload(msg.Payload())
		if !ok {
			logclient.LogError(ctx, t.logCap, proto.ErrBadMessage, proto.MsgKey, "short key payload")
			continue
		}
		if !press {
			continue
		}
		t.handleKey(ctx, hal.KeyCode(code), r)
		t.publish()
		t.render()
	}
}

// Snapshot returns the state as of the last handled key. Safe to call from any goroutine.
func (t *Task) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap
}

func (t *Task) publish() {
	if t.sess == nil {
		return
	}
	s := Snapshot{
		Label:    t.sess.Label(),
		Display:  t.sess.Display(),
		Mode:     t.sess.Mode(),
		History:  t.sess.History(),
		Drawer:   t.drawer,
		Selected: t.sel,
	}
	t.mu.Lock()
	t.snap = s
	t.mu.Unlock()
}

func (t *Task) handleKey(ctx *kernel.Context, code hal.KeyCode, r rune) {
	if t.drawer {
		t.handleDrawerKey(ctx, code, r)
		return
	}
	if code == hal.KeyTab && r == 0 {
		t.drawer = true
		t.sel = 0
		return
	}
	ev, ok := keyEvent(code, r)
	if !ok {
		return
	}
	t.apply(ctx, ev)
}

func (t *Task) handleDrawerKey(ctx *kernel.Context, code hal.KeyCode, r rune) {
	n := len(t.sess.History())
	switch {
	case code == hal.KeyUp:
		if t.sel > 0 {
			t.sel--
		}
	case code == hal.KeyDown:
		if t.sel < n-1 {
			t.sel++
		}
	case code == hal.KeyEnter:
		t.drawer = false
		if n > 0 {
			t.apply(ctx, calc.ReplayEvent(t.sel))
		}
	case r == 'x':
		t.apply(ctx, calc.Event{Kind: calc.EventClearHistory})
		t.sel = 0
	case code == hal.KeyTab, code == hal.KeyEscape:
		t.drawer = false
	}
}

func (t *Task) apply(ctx *kernel.Context, ev calc.Event) {
	raw := t.sess.Display()
	if err := t.sess.Apply(ev); err != nil {
		logclient.LogError(ctx, t.logCap, errCode(err), proto.MsgKey, err.Error())
		return
	}
	if ev.Kind == calc.EventEvaluate {
		logclient.LogEval(ctx, t.logCap, raw, t.sess.Display())
	}
}
