package event

import (
	"fmt"
	"log/slog"
	"sync"
)

// Handler queues events and delivers them to registered receivers.
//
// Queueing methods are safe for concurrent use and may be called from within
// receiver callbacks. Dispatch passes (the Fire* methods) are serialized; a
// receiver callback must not start a dispatch pass itself.
type Handler struct {
	pass      sync.Mutex
	events    Queue[Event]
	engine    Queue[EngineEvent]
	receivers Queue[Receiver]
	log       *slog.Logger
}

// NewHandler creates an empty Handler. If log is nil, slog.Default() is used.
func NewHandler(log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{log: log.With("component", "events")}
}

// AddReceiver registers r. A receiver added during a dispatch pass is not
// visited by that pass, but by every following one.
func (h *Handler) AddReceiver(r Receiver) {
	h.log.Debug("receiver registered", "type", typeName(r))
	h.receivers.Push(r)
}

// QueueEvent queues a user event for the next FireEvents pass.
func (h *Handler) QueueEvent(e Event) {
	h.log.Debug("event queued", "event", e)
	h.events.Push(e)
}

// QueueEngineEvent queues an engine event for the next FireEngineEvent pass
// of the same kind.
//
// The app loop drains only the kinds a window system produces: KeyDown,
// KeyUp, WindowClose, WindowResize, WindowFocus and WindowUnfocus. The other
// kinds are fired by the loop itself with FireSingleEngineEvent; queueing
// them there has no effect beyond a warning.
func (h *Handler) QueueEngineEvent(e EngineEvent) {
	h.log.Debug("engine event queued", "event", e)
	h.engine.Push(e)
}

// FireEvents delivers all queued user events to all receivers registered
// before the call. Events are delivered last-queued first; each event reaches
// every receiver, in registration order, before the next event is delivered.
func (h *Handler) FireEvents() {
	h.pass.Lock()
	defer h.pass.Unlock()
	h.log.Debug("begin dispatching events")

	h.receivers.Snapshot()
	h.events.Snapshot()
	receivers := h.receivers.Inflight()
	for e, ok := h.events.Pop(); ok; e, ok = h.events.Pop() {
		for _, r := range receivers {
			if err := r.DispatchEvent(e.Clone()); err != nil {
				h.log.Error("error while dispatching event", "event", e, "receiver", typeName(r), "err", err)
			}
		}
	}
	h.receivers.Apply()

	h.log.Debug("finished dispatching events")
}

// FireEngineEvent delivers the queued engine events whose kind is one of
// kinds. Queued events of other kinds stay queued. Matching events are
// delivered in the order they were queued, also across kinds, so a release
// followed by a press of the same key arrives in that order.
func (h *Handler) FireEngineEvent(kinds ...Kind) {
	h.pass.Lock()
	defer h.pass.Unlock()
	h.log.Debug("begin dispatching engine events", "kinds", kinds)

	h.receivers.Snapshot()
	n := h.engine.SnapshotFunc(func(e EngineEvent) bool { return e.isOneOf(kinds) })
	if n > 0 {
		receivers := h.receivers.Inflight()
		for _, e := range h.engine.Inflight() {
			h.deliver(e, receivers)
		}
		h.engine.Discard()
	}
	h.receivers.Apply()

	h.log.Debug("finished dispatching engine events", "kinds", kinds, "count", n)
}

// DiscardEngineEvents drops the queued engine events whose kind is one of
// kinds without delivering them and returns how many were dropped.
func (h *Handler) DiscardEngineEvents(kinds ...Kind) int {
	h.pass.Lock()
	defer h.pass.Unlock()
	n := h.engine.SnapshotFunc(func(e EngineEvent) bool { return e.isOneOf(kinds) })
	h.engine.Discard()
	return n
}

// FireSingleEngineEvent delivers e to all receivers immediately, bypassing
// and leaving untouched the engine event queue.
func (h *Handler) FireSingleEngineEvent(e EngineEvent) {
	h.pass.Lock()
	defer h.pass.Unlock()
	h.log.Debug("dispatching single engine event", "event", e)

	h.receivers.Snapshot()
	h.deliver(e, h.receivers.Inflight())
	h.receivers.Apply()
}

func (h *Handler) deliver(e EngineEvent, receivers []Receiver) {
	for _, r := range receivers {
		if err := e.deliver(r); err != nil {
			h.log.Error("error while dispatching engine event", "event", e, "receiver", typeName(r), "err", err)
		}
	}
}

// Pending returns the number of queued user events, engine events and
// receivers. Outside of a dispatch pass nothing is inflight, so the counts
// cover everything the Handler holds.
func (h *Handler) Pending() (events, engineEvents, receivers int) {
	events, _ = h.events.Len()
	engineEvents, _ = h.engine.Len()
	receivers, _ = h.receivers.Len()
	return
}

func typeName(r Receiver) string { return fmt.Sprintf("%T", r) }
