package main

// EventKind names an outbound effect signal. The client renders and plays audio from these;
// the server never waits on them.
type EventKind string

const (
	// EventCombine: two bank elements merged. Sources, Result, NewDiscovery, Slot (-1 when the
	// result went to a random slot).
	EventCombine EventKind = "combine"
	// EventDiscover: first time this actor produced Result. WorldFirst marks the first in the session.
	EventDiscover EventKind = "discover"
	// EventStreak: the player's combo streak advanced to Streak.
	EventStreak EventKind = "streak"
	// EventDigest: a void orb cleared Count elements.
	EventDigest EventKind = "digest"
	// EventDied: actor died; Cause is the killer's name or "Boundary".
	EventDied EventKind = "died"
)

// Event is one outbound signal produced during a tick.
type Event struct {
	Kind         EventKind   `json:"k"`
	Tick         uint64      `json:"t"`
	ActorID      string      `json:"a"`
	ActorName    string      `json:"an,omitempty"`
	Sources      []ElementID `json:"s,omitempty"`
	Result       ElementID   `json:"r,omitempty"`
	NewDiscovery bool        `json:"n,omitempty"`
	WorldFirst   bool        `json:"w,omitempty"`
	Slot         int         `json:"i"`
	Streak       int         `json:"c,omitempty"`
	Count        int         `json:"x,omitempty"`
	Cause        string      `json:"d,omitempty"`
}

// EventBuffer collects events for the current tick. Single-owner: the session goroutine.
type EventBuffer struct {
	events []Event
}

// Emit appends an event.
func (b *EventBuffer) Emit(e Event) {
	b.events = append(b.events, e)
}

// Drain returns buffered events in emission order and empties the buffer.
func (b *EventBuffer) Drain() []Event {
	out := b.events
	b.events = nil
	return out
}

// Len returns the number of buffered events.
func (b *EventBuffer) Len() int {
	return len(b.events)
}
