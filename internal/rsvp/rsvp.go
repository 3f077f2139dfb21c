// Package rsvp drives the public confirmation page: resolve the guest from
// their invitation link, collect the form, and submit the pending →
// confirmed/declined transition. Both outcomes are terminal for the guest;
// only a host edit can move the record afterwards.
package rsvp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"wedding-invites/internal/api"
	"wedding-invites/internal/models"
)

var (
	// ErrInvalidInvitation means the guest id could not be resolved from
	// the invitation URL. Local and non-retriable; no network call is made.
	ErrInvalidInvitation = errors.New("invalid invitation link")

	// ErrTooManyCompanions means the form names more companions than the
	// invitation allocates. Advisory bound, checked before submitting.
	ErrTooManyCompanions = errors.New("more companions than allocated seats")

	// ErrAlreadySubmitted means the form was frozen by a successful
	// submission; a fresh page load is required to start over.
	ErrAlreadySubmitted = errors.New("rsvp already submitted")
)

// GuestIDFromInvitationURL extracts the guest id embedded in an invitation
// deep link: the path segment immediately preceding the trailing segment.
func GuestIDFromInvitationURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrInvalidInvitation
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 {
		return "", ErrInvalidInvitation
	}
	id := segments[len(segments)-2]
	if id == "" {
		return "", ErrInvalidInvitation
	}
	return id, nil
}

// Form holds the guest's answers. Companion names and songs are only
// meaningful when the guest will attend; PersonalMessage is kept on both
// branches.
type Form struct {
	WillAttend           bool
	AdditionalGuestNames []string
	SuggestedSongs       []string
	PersonalMessage      string
}

// State is the page-local submission state.
type State int

const (
	// StateEditing means the form is open and can be submitted.
	StateEditing State = iota
	// StateSubmitted means the form is frozen; the answer is on record.
	StateSubmitted
)

// API is the slice of the remote client the confirmation page needs.
type API interface {
	Guest(ctx context.Context, guestID string) (models.Guest, error)
	ConfirmRSVP(ctx context.Context, guestID string, conf api.Confirmation) error
}

// Page models one visit to a personalized confirmation link.
type Page struct {
	api     API
	guestID string
	guest   models.Guest
	state   State
}

// Load resolves the invitation link and fetches the guest. If the guest
// already answered, the page starts in the terminal state with no
// transition.
func Load(ctx context.Context, remote API, invitationURL string) (*Page, error) {
	guestID, err := GuestIDFromInvitationURL(invitationURL)
	if err != nil {
		return nil, err
	}

	guest, err := remote.Guest(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("load confirmation page: %w", err)
	}
	guest.Normalize()

	p := &Page{api: remote, guestID: guestID, guest: guest}
	if guest.Status != models.StatusPending {
		p.state = StateSubmitted
	}
	return p, nil
}

// Guest returns the record the page was loaded with.
func (p *Page) Guest() models.Guest { return p.guest }

// State returns the current page state.
func (p *Page) State() State { return p.state }

// Submit validates the form, builds the confirmation payload and sends it.
// On success the page freezes; on failure it stays editable and the error
// is surfaced for a manual retry. Resubmitting after a reload simply
// overwrites the prior answer.
func (p *Page) Submit(ctx context.Context, form Form) error {
	if p.state == StateSubmitted {
		return ErrAlreadySubmitted
	}
	if form.WillAttend && len(form.AdditionalGuestNames) > p.guest.CompanionSeats() {
		return ErrTooManyCompanions
	}

	conf := BuildConfirmation(form)
	if err := p.api.ConfirmRSVP(ctx, p.guestID, conf); err != nil {
		return err
	}

	p.guest.Status = conf.Status
	p.guest.AdditionalGuestNames = conf.AdditionalGuestNames
	p.guest.SuggestedSongs = conf.SuggestedSongs
	p.guest.PersonalMessage = conf.PersonalMessage
	p.state = StateSubmitted
	return nil
}

// BuildConfirmation maps the form onto the submission body. A declined
// guest never carries companion or song data forward; the lists are forced
// empty regardless of what the form collected.
func BuildConfirmation(form Form) api.Confirmation {
	conf := api.Confirmation{
		WillAttend:      form.WillAttend,
		PersonalMessage: form.PersonalMessage,
	}
	if form.WillAttend {
		conf.Status = models.StatusConfirmed
		conf.AdditionalGuestNames = append([]string{}, form.AdditionalGuestNames...)
		conf.SuggestedSongs = append([]string{}, form.SuggestedSongs...)
	} else {
		conf.Status = models.StatusDeclined
		conf.AdditionalGuestNames = []string{}
		conf.SuggestedSongs = []string{}
	}
	return conf
}
