package host

import (
	"sort"
	"sync"
)

// EventKind identifies a project lifecycle event.
type EventKind string

const (
	ProjectOpened  EventKind = "project_opened"
	ProjectSaved   EventKind = "project_saved"
	ProjectCreated EventKind = "project_created"
	ProjectClosed  EventKind = "project_closed"
)

// Event is a project lifecycle notification from the host.
type Event struct {
	Kind EventKind
	// Path is the project file path at the time of the event, when known.
	Path string
}

// Handler receives dispatched events.
type Handler func(Event)

// Dispatcher fans project events out to subscribers. Host integrations feed
// it from their native callback mechanism; consumers subscribe and
// unsubscribe explicitly instead of hanging handlers off process globals.
type Dispatcher struct {
	mu   sync.Mutex
	next int
	subs map[int]Handler
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{subs: make(map[int]Handler)}
}

// Subscribe registers a handler and returns its subscription id.
func (d *Dispatcher) Subscribe(h Handler) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.next++
	d.subs[d.next] = h
	return d.next
}

// Unsubscribe removes a previously registered handler. Unknown ids are a
// no-op.
func (d *Dispatcher) Unsubscribe(id int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.subs, id)
}

// Dispatch delivers an event to every subscriber. Handlers run outside the
// dispatcher lock, in subscription order.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.Lock()
	ids := make([]int, 0, len(d.subs))
	for id := range d.subs {
		ids = append(ids, id)
	}
	handlers := make([]Handler, 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		handlers = append(handlers, d.subs[id])
	}
	d.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}
