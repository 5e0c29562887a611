package calc

import (
	"fmt"
	"strconv"
)

type EventKind uint8

const (
	EventToken EventKind = iota
	EventKey
	EventToggleInverse
	EventToggleHyperbolic
	EventToggleAngle
	EventBackspace
	EventClear
	EventEvaluate
	EventReplay
	EventClearHistory
)

func (k EventKind) String() string {
	switch k {
	case EventToken:
		return "token"
	case EventKey:
		return "key"
	case EventToggleInverse:
		return "inv"
	case EventToggleHyperbolic:
		return "hyp"
	case EventToggleAngle:
		return "drg"
	case EventBackspace:
		return "del"
	case EventClear:
		return "clear"
	case EventEvaluate:
		return "eval"
	case EventReplay:
		return "replay"
	case EventClearHistory:
		return "tapeclr"
	default:
		return "?"
	}
}

// Event is one keystroke or menu selection. Token is used by EventToken, Key by EventKey
// and Index by EventReplay.
type Event struct {
	Kind  EventKind
	Token string
	Key   Key
	Index int
}

func TokenEvent(t string) Event { return Event{Kind: EventToken, Token: t} }
func KeyEvent(k Key) Event      { return Event{Kind: EventKey, Key: k} }
func ReplayEvent(i int) Event   { return Event{Kind: EventReplay, Index: i} }

func (e Event) String() string {
	switch e.Kind {
	case EventToken:
		return "token " + strconv.Quote(e.Token)
	case EventKey:
		return "key " + string(e.Key)
	case EventReplay:
		return "replay " + strconv.Itoa(e.Index)
	default:
		return e.Kind.String()
	}
}

// Apply dispatches one event. Evaluation and replay failures are returned so callers can
// log them; the session has already moved to its error state.
func (s *Session) Apply(ev Event) error {
	switch ev.Kind {
	case EventToken:
		s.AppendToken(ev.Token)
	case EventKey:
		return s.PressKey(ev.Key)
	case EventToggleInverse:
		s.ToggleInverse()
	case EventToggleHyperbolic:
		s.ToggleHyperbolic()
	case EventToggleAngle:
		s.ToggleAngleMode()
	case EventBackspace:
		s.Backspace()
	case EventClear:
		s.Clear()
	case EventEvaluate:
		_, err := s.Evaluate()
		return err
	case EventReplay:
		return s.Replay(ev.Index)
	case EventClearHistory:
		s.ClearHistory()
	default:
		return fmt.Errorf("calc: unknown event kind %d", ev.Kind)
	}
	return nil
}
