// Package handler ties WhatsApp conversations to the guest list: outbound
// invitation messages carrying each guest's personalized link, and inbound
// quick replies that answer the RSVP without opening the page.
package handler

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"go.mau.fi/whatsmeow/types/events"

	"wedding-invites/internal/api"
	"wedding-invites/internal/models"
	"wedding-invites/internal/store"
	"wedding-invites/internal/sync"
	"wedding-invites/internal/whatsapp"
)

// Config carries the event details rendered into invitation messages.
type Config struct {
	EventName     string
	EventDate     string
	EventLocation string
	HostName      string
}

// InviteHandler sends invitations and processes quick-reply answers.
type InviteHandler struct {
	sender whatsapp.Sender
	syncer *sync.GuestSyncer
	store  *store.GuestStore
	config *Config
	log    zerolog.Logger
}

// NewInviteHandler creates an invite handler.
func NewInviteHandler(sender whatsapp.Sender, syncer *sync.GuestSyncer, st *store.GuestStore, cfg *Config) *InviteHandler {
	return &InviteHandler{
		sender: sender,
		syncer: syncer,
		store:  st,
		config: cfg,
		log:    zerolog.New(os.Stdout).With().Str("component", "Invites").Logger(),
	}
}

// SendInvitation delivers the guest's personalized invitation. The guest
// must already exist in the reconciled list; invitations are sent from the
// authoritative record, never from unsaved form data.
func (h *InviteHandler) SendInvitation(ctx context.Context, guestID string) error {
	guest, ok := h.store.Get(guestID)
	if !ok {
		return fmt.Errorf("guest %s not in local list", guestID)
	}

	message := fmt.Sprintf(
		"🎉 *%s*\n\n"+
			"Dear %s,\n\n"+
			"%s invites you to celebrate with us.\n\n"+
			"📅 Date: %s\n"+
			"📍 Location: %s\n\n"+
			"Please confirm your attendance here:\n%s",
		h.config.EventName, guest.Name, h.config.HostName,
		h.config.EventDate, h.config.EventLocation, guest.InvitationURL,
	)
	if guest.CompanionSeats() > 0 {
		message += fmt.Sprintf("\n\nYour invitation includes %d companion seat(s).", guest.CompanionSeats())
	}
	message += "\n\nYou can also reply *YES* to confirm or *NO* to decline."

	if err := h.sender.SendMessage(ctx, guest.Phone, message); err != nil {
		return fmt.Errorf("failed to send invitation: %w", err)
	}
	return nil
}

// HandleMessage processes incoming WhatsApp messages as quick RSVP
// replies. Messages from numbers not on the guest list are ignored.
func (h *InviteHandler) HandleMessage(msg *events.Message) error {
	if msg.Message == nil {
		return nil
	}
	text := msg.Message.GetConversation()
	if text == "" {
		return nil
	}

	sender := msg.Info.Sender.String()
	phone := whatsapp.NormalizePhoneNumber(strings.Split(sender, "@")[0])

	guest, ok := h.store.GetByPhone(phone)
	if !ok {
		return nil
	}

	text = strings.ToLower(strings.TrimSpace(text))

	// Decline is checked first: phrases like "no asisto" contain attend
	// keywords as substrings and must not fall into the attend branch.
	var willAttend bool
	var responseMessage string
	switch {
	case hasWord(text, "no") || containsAny(text, "decline", "not coming", "can't", "cannot", "❌"):
		willAttend = false
		responseMessage = fmt.Sprintf(
			"Thank you for letting us know. We're sorry you won't be able to join us for %s.\n\nWe'll miss you!",
			h.config.EventName,
		)
	case hasWord(text, "yes", "si", "sí", "asisto", "confirmo") || containsAny(text, "confirm", "accept", "attending", "coming", "✅"):
		willAttend = true
		responseMessage = fmt.Sprintf(
			"🎉 Wonderful! We've confirmed your attendance to %s on %s.\n\nSee you there!",
			h.config.EventName, h.config.EventDate,
		)
	default:
		// Not a clear RSVP response, ignore
		return nil
	}

	conf := quickConfirmation(guest, willAttend)
	ctx := context.Background()
	if _, err := h.syncer.ConfirmGuest(ctx, guest.ID, conf); err != nil {
		return fmt.Errorf("failed to record rsvp answer: %w", err)
	}

	if err := h.sender.SendMessage(ctx, phone, responseMessage); err != nil {
		return fmt.Errorf("failed to send confirmation: %w", err)
	}
	return nil
}

// quickConfirmation maps a bare yes/no reply to a full confirmation body.
// Confirming keeps whatever companions and songs are already on record; a
// decline clears both lists.
func quickConfirmation(guest models.Guest, willAttend bool) api.Confirmation {
	conf := api.Confirmation{
		WillAttend:      willAttend,
		PersonalMessage: guest.PersonalMessage,
	}
	if willAttend {
		conf.Status = models.StatusConfirmed
		conf.AdditionalGuestNames = append([]string{}, guest.AdditionalGuestNames...)
		conf.SuggestedSongs = append([]string{}, guest.SuggestedSongs...)
	} else {
		conf.Status = models.StatusDeclined
		conf.AdditionalGuestNames = []string{}
		conf.SuggestedSongs = []string{}
	}
	return conf
}

// containsAny checks if the text contains any of the given keywords
func containsAny(text string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// hasWord checks if any whole word of the text equals one of the given
// keywords, so short answers like "no" never match inside longer words.
func hasWord(text string, keywords ...string) bool {
	for _, word := range strings.FieldsFunc(text, func(r rune) bool { return !unicode.IsLetter(r) }) {
		for _, keyword := range keywords {
			if word == keyword {
				return true
			}
		}
	}
	return false
}
