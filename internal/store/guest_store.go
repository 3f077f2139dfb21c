// Package store holds the in-memory reconciled state of one client: the
// guest list of the event being managed and the dashboard's event list.
// Each store has a single logical writer; merges are applied strictly in
// the order their triggering events are observed.
package store

import (
	"sync"

	"github.com/google/uuid"

	"wedding-invites/internal/models"
	"wedding-invites/internal/stats"
)

// GuestStore reconciles snapshot fetches, host mutations and realtime
// notifications into one ordered guest list keyed by id. The merge rules
// make the list converge under duplicate or out-of-order notifications,
// as long as every notification carries a full entity snapshot.
type GuestStore struct {
	mu        sync.RWMutex
	guests    []models.Guest
	listeners []func()
}

// NewGuestStore creates an empty guest store.
func NewGuestStore() *GuestStore {
	return &GuestStore{guests: make([]models.Guest, 0)}
}

// OnChange registers a listener fired after every mutating merge, in merge
// order. Listeners run synchronously while the write lock is released.
func (s *GuestStore) OnChange(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *GuestStore) notify() {
	s.mu.RLock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn()
	}
}

// ReplaceAll swaps in a full snapshot, normalizing every entry and
// assigning fresh render keys. Used for the initial fetch and for gap
// recovery after a channel reconnect.
func (s *GuestStore) ReplaceAll(guests []models.Guest) {
	s.mu.Lock()
	s.guests = make([]models.Guest, 0, len(guests))
	for _, g := range guests {
		s.guests = append(s.guests, models.NewGuest(g))
	}
	s.mu.Unlock()
	s.notify()
}

// ApplyAdd appends a new guest. Adds for an id already present are no-ops,
// so duplicate new-guest notifications are harmless.
func (s *GuestStore) ApplyAdd(g models.Guest) {
	s.mu.Lock()
	if g.ID != "" && s.indexOf(g.ID) >= 0 {
		s.mu.Unlock()
		return
	}
	g.UniqueKey = ""
	s.guests = append(s.guests, models.NewGuest(g))
	s.mu.Unlock()
	s.notify()
}

// ApplyUpdate replaces the fields of an existing guest by id. Updates for
// an unknown id are dropped, never inserted; the entry's UniqueKey is
// preserved so rendering identity does not churn.
func (s *GuestStore) ApplyUpdate(g models.Guest) {
	s.mu.Lock()
	i := s.indexOf(g.ID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	g.UniqueKey = s.guests[i].UniqueKey
	g.Normalize()
	s.guests[i] = g
	s.mu.Unlock()
	s.notify()
}

// ApplyDelete removes a guest by id. Deletes for an absent id are no-ops.
func (s *GuestStore) ApplyDelete(id string) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.guests = append(s.guests[:i], s.guests[i+1:]...)
	s.mu.Unlock()
	s.notify()
}

// ApplyReplace swaps a new person into an existing invitation slot. The
// incoming guest takes over the old guest's id and list position, and the
// RSVP state starts over: status pending, companions and songs cleared.
func (s *GuestStore) ApplyReplace(id string, g models.Guest) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	g.ID = id
	g.Status = models.StatusPending
	g.AdditionalGuestNames = []string{}
	g.SuggestedSongs = []string{}
	g.UniqueKey = uuid.NewString()
	g.Normalize()
	s.guests[i] = g
	s.mu.Unlock()
	s.notify()
}

// Guests returns a copy of the current ordered snapshot.
func (s *GuestStore) Guests() []models.Guest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	guests := make([]models.Guest, len(s.guests))
	copy(guests, s.guests)
	return guests
}

// Get retrieves a guest by id.
func (s *GuestStore) Get(id string) (models.Guest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.guests[i], true
	}
	return models.Guest{}, false
}

// GetByPhone retrieves a guest by phone number, the uniqueness anchor for
// "does this guest already exist" checks.
func (s *GuestStore) GetByPhone(phone string) (models.Guest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.guests {
		if g.Phone == phone {
			return g, true
		}
	}
	return models.Guest{}, false
}

// Len returns the number of guests.
func (s *GuestStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.guests)
}

// Stats recomputes the summary counters from the current snapshot.
func (s *GuestStore) Stats() stats.Summary {
	return stats.Compute(s.Guests())
}

// indexOf must be called with the lock held.
func (s *GuestStore) indexOf(id string) int {
	for i, g := range s.guests {
		if g.ID == id {
			return i
		}
	}
	return -1
}
