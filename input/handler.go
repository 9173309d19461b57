package input

import (
	"github.com/charmbracelet/log"

	"github.com/milk9111/actorfsm/notify"
)

// signalKey lets the same action be current for both systems at once, such
// as a movement Idle and a combat Idle.
type signalKey struct {
	system SystemType
	action Action
}

// Handler turns raw device reports into signals with press/release edges and
// publishes a snapshot to its subscribers whenever the current set changes.
type Handler struct {
	board     *Board[signalKey, Signal]
	held      map[signalKey]bool
	behaviors map[Action]Behavior
	stream    *notify.Stream[Snapshot]
	logger    *log.Logger
}

// NewHandler creates a handler accepting up to capacity subscribers. A nil
// behaviors map uses DefaultBehaviors.
func NewHandler(capacity int, behaviors map[Action]Behavior, logger *log.Logger) *Handler {
	if behaviors == nil {
		behaviors = DefaultBehaviors()
	}
	return &Handler{
		board:     NewBoard[signalKey, Signal](Signal.Equal),
		held:      map[signalKey]bool{},
		behaviors: behaviors,
		stream:    notify.NewStream[Snapshot]("input", capacity),
		logger:    logger,
	}
}

func (h *Handler) Subscribe(fn func(Snapshot) error) error {
	return h.stream.Subscribe(fn)
}

func (h *Handler) behavior(a Action) Behavior {
	if b, ok := h.behaviors[a]; ok {
		return b
	}
	return Eventful
}

// Report records the device state for sig.Action. Pressed and Released are
// derived here; the caller only sets System, Action, Held and Direction.
//
// Eventful actions are recorded only on the press edge and vanish on the next
// Tick. Stateful actions are recorded on every change.
func (h *Handler) Report(sig Signal) error {
	key := signalKey{system: sig.System, action: sig.Action}
	wasHeld := h.held[key]
	h.held[key] = sig.Held

	sig.Pressed = sig.Held && !wasHeld
	sig.Released = !sig.Held && wasHeld

	if h.behavior(sig.Action) == Eventful {
		if !sig.Pressed {
			return nil
		}
		sig.Held = true
		if h.board.Put(key, sig, true) {
			return h.publish()
		}
		return nil
	}

	if h.board.Put(key, sig, false) {
		return h.publish()
	}
	return nil
}

// Tick must be called once at the top of every host tick, before new reports.
// It expires last tick's eventful signals.
func (h *Handler) Tick() error {
	if h.board.Tick() {
		return h.publish()
	}
	return nil
}

func (h *Handler) Snapshot() Snapshot {
	return Snapshot{Signals: h.board.Values(), Tick: h.board.CurrentTick()}
}

func (h *Handler) publish() error {
	snap := h.Snapshot()
	if h.logger != nil {
		h.logger.Debug("input snapshot", "tick", snap.Tick, "signals", len(snap.Signals))
	}
	return h.stream.Publish(snap)
}
