package events

import (
	"log/slog"
	"sync"
	"time"
)

const defaultSubscriberBuffer = 64

// Bus fans committed events out to subscribers, scoped by campaign or
// session ID. Sequence numbers are assigned under the publish lock, so every
// subscriber of a scope observes events in commit order. A subscriber that
// cannot keep up has events dropped rather than being allowed to block a
// commit; such clients recover by rejoining and taking a fresh snapshot.
type Bus struct {
	mu      sync.Mutex
	seq     map[string]uint64
	subs    map[string]map[uint64]chan Event
	nextSub uint64
	buffer  int
}

// NewBus creates an event bus with the default subscriber buffer.
func NewBus() *Bus {
	return &Bus{
		seq:    make(map[string]uint64),
		subs:   make(map[string]map[uint64]chan Event),
		buffer: defaultSubscriberBuffer,
	}
}

// Publish commits one event to a scope and returns the stamped envelope.
func (b *Bus) Publish(scope string, kind Kind, payload any) Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq[scope]++
	event := Event{
		Scope:   scope,
		Seq:     b.seq[scope],
		Kind:    kind,
		At:      time.Now().UTC(),
		Payload: payload,
	}

	for id, ch := range b.subs[scope] {
		select {
		case ch <- event:
		default:
			slog.Warn("dropping event for slow subscriber",
				"scope", scope,
				"subscriber", id,
				"kind", kind,
				"seq", event.Seq,
			)
		}
	}

	return event
}

// Subscribe registers a listener for a scope. The returned cancel func must
// be called when the listener goes away; it closes the channel.
func (b *Bus) Subscribe(scope string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[scope] == nil {
		b.subs[scope] = make(map[uint64]chan Event)
	}

	id := b.nextSub
	b.nextSub++

	ch := make(chan Event, b.buffer)
	b.subs[scope][id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[scope][id]; !ok {
			return
		}
		delete(b.subs[scope], id)
		if len(b.subs[scope]) == 0 {
			delete(b.subs, scope)
		}
		close(ch)
	}

	return ch, cancel
}
