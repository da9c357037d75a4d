// Package live implements the in-process push channel that drives
// dashboard updates. Task mutations publish events keyed by user; each
// connected dashboard re-reads the full task set in response, so the
// stream is the sole source of truth for the rendered list.
package live

import "sync"

type EventKind int

const (
	// EventTasksChanged signals that the subscriber's task set (or point
	// total) changed and should be re-read in full.
	EventTasksChanged EventKind = iota
	// EventNotify carries a best-effort user notification.
	EventNotify
)

type Event struct {
	Kind  EventKind
	Title string
	Body  string
}

// Broker is a per-user publish/subscribe hub. It is safe for concurrent use.
type Broker struct {
	mu   sync.Mutex
	subs map[int64]map[chan Event]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int64]map[chan Event]struct{})}
}

// Subscribe registers a listener for the given user's events. The caller
// must invoke the returned cancel func on teardown to release the
// subscription; after cancel the channel is closed.
func (b *Broker) Subscribe(userID int64) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	b.mu.Lock()
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[chan Event]struct{})
	}
	b.subs[userID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[userID], ch)
			if len(b.subs[userID]) == 0 {
				delete(b.subs, userID)
			}
			close(ch)
			b.mu.Unlock()
		})
	}
	return ch, cancel
}

// publish delivers the event to every subscriber of the user without
// blocking. A subscriber with a full buffer misses the event; the next
// snapshot re-delivers full state anyway.
func (b *Broker) publish(userID int64, ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[userID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// TasksChanged signals that the user's task set should be re-read.
func (b *Broker) TasksChanged(userID int64) {
	b.publish(userID, Event{Kind: EventTasksChanged})
}

// Notify pushes a fire-and-forget notification to the user. There is no
// delivery confirmation.
func (b *Broker) Notify(userID int64, title, body string) {
	b.publish(userID, Event{Kind: EventNotify, Title: title, Body: body})
}
