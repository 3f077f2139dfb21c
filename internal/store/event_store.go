package store

import (
	"sync"

	"wedding-invites/internal/models"
)

// EventStore reconciles the host dashboard's event list with the same
// merge discipline as the guest list: idempotent adds, update-by-id that
// never inserts, no-op deletes for unknown ids.
type EventStore struct {
	mu        sync.RWMutex
	events    []models.Event
	listeners []func()
}

// NewEventStore creates an empty event store.
func NewEventStore() *EventStore {
	return &EventStore{events: make([]models.Event, 0)}
}

// OnChange registers a listener fired after every mutating merge.
func (s *EventStore) OnChange(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *EventStore) notify() {
	s.mu.RLock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn()
	}
}

// ReplaceAll swaps in a full snapshot.
func (s *EventStore) ReplaceAll(events []models.Event) {
	s.mu.Lock()
	s.events = make([]models.Event, len(events))
	copy(s.events, events)
	s.mu.Unlock()
	s.notify()
}

// ApplyAdd appends a new event; an id already present is a no-op.
func (s *EventStore) ApplyAdd(e models.Event) {
	s.mu.Lock()
	if e.ID != "" && s.indexOf(e.ID) >= 0 {
		s.mu.Unlock()
		return
	}
	s.events = append(s.events, e)
	s.mu.Unlock()
	s.notify()
}

// ApplyUpdate replaces an existing event by id; unknown ids are dropped.
func (s *EventStore) ApplyUpdate(e models.Event) {
	s.mu.Lock()
	i := s.indexOf(e.ID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.events[i] = e
	s.mu.Unlock()
	s.notify()
}

// ApplyDelete removes an event by id; absent ids are no-ops.
func (s *EventStore) ApplyDelete(id string) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.events = append(s.events[:i], s.events[i+1:]...)
	s.mu.Unlock()
	s.notify()
}

// Events returns a copy of the current ordered snapshot.
func (s *EventStore) Events() []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]models.Event, len(s.events))
	copy(events, s.events)
	return events
}

// Get retrieves an event by id.
func (s *EventStore) Get(id string) (models.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.events[i], true
	}
	return models.Event{}, false
}

func (s *EventStore) indexOf(id string) int {
	for i, e := range s.events {
		if e.ID == id {
			return i
		}
	}
	return -1
}
