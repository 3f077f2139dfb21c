package models

import "github.com/google/uuid"

// Guest represents an invited person tied to one event
type Guest struct {
	ID                   string      `json:"id,omitempty"`
	Name                 string      `json:"name"`
	Phone                string      `json:"phone"`
	Email                string      `json:"email,omitempty"`
	Type                 GuestType   `json:"type,omitempty"`
	NumberOfGuests       *int        `json:"numberOfGuests"`
	Status               GuestStatus `json:"status,omitempty"`
	AdditionalGuestNames []string    `json:"additionalGuestNames"`
	SuggestedSongs       []string    `json:"suggestedSongs"`
	PersonalMessage      string      `json:"personalMessage,omitempty"`
	InvitationURL        string      `json:"invitationUrl,omitempty"`

	// UniqueKey is a client-local rendering key, never sent to the server
	// and never used for business logic.
	UniqueKey string `json:"-"`
}

// GuestStatus represents the attendance confirmation status
type GuestStatus string

const (
	StatusPending   GuestStatus = "pending"
	StatusConfirmed GuestStatus = "confirmed"
	StatusDeclined  GuestStatus = "declined"
)

// GuestType is a display grouping tag; no business rule depends on it.
type GuestType string

const (
	TypePrincipal GuestType = "principal"
	TypeFamiliar  GuestType = "familiar"
	TypeAmigo     GuestType = "amigo"
	TypeProveedor GuestType = "proveedor"
)

// NewGuest builds a normalized guest from server or form data. Missing
// status defaults to pending and nil lists become empty, so every other
// component can rely on those invariants instead of re-checking them.
func NewGuest(g Guest) Guest {
	g.Normalize()
	if g.UniqueKey == "" {
		g.UniqueKey = uuid.NewString()
	}
	return g
}

// Normalize applies the defaulting rules in place without touching the
// UniqueKey, so reconciler merges do not churn render identity.
func (g *Guest) Normalize() {
	if g.Status == "" {
		g.Status = StatusPending
	}
	if g.AdditionalGuestNames == nil {
		g.AdditionalGuestNames = []string{}
	}
	if g.SuggestedSongs == nil {
		g.SuggestedSongs = []string{}
	}
}

// CompanionSeats returns the number of companion seats allocated to this
// invitation, treating nil as zero.
func (g Guest) CompanionSeats() int {
	if g.NumberOfGuests == nil {
		return 0
	}
	return *g.NumberOfGuests
}
