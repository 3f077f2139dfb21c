// Package sync keeps the in-memory stores consistent with the server: an
// initial snapshot fetch, realtime notifications merged in arrival order,
// and host mutations that write remotely first and only touch local state
// after the server acknowledges.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"wedding-invites/internal/api"
	"wedding-invites/internal/models"
	"wedding-invites/internal/realtime"
	"wedding-invites/internal/store"
)

// GuestAPI is the slice of the remote client the guest syncer needs.
type GuestAPI interface {
	GuestsByEvent(ctx context.Context, eventID string) ([]models.Guest, error)
	CreateGuest(ctx context.Context, g models.Guest) (models.Guest, error)
	UpdateGuest(ctx context.Context, g models.Guest) (models.Guest, error)
	DeleteGuest(ctx context.Context, guestID string) error
	ConfirmRSVP(ctx context.Context, guestID string, conf api.Confirmation) error
}

// GuestSyncer owns one event's guest list for the lifetime of the guest
// management page.
type GuestSyncer struct {
	api     GuestAPI
	store   *store.GuestStore
	channel realtime.Channel
	eventID string
	log     zerolog.Logger

	unsubscribe []func()
}

// NewGuestSyncer wires a syncer for one event.
func NewGuestSyncer(remote GuestAPI, st *store.GuestStore, ch realtime.Channel, eventID string) *GuestSyncer {
	return &GuestSyncer{
		api:     remote,
		store:   st,
		channel: ch,
		eventID: eventID,
		log:     zerolog.New(os.Stdout).With().Str("component", "GuestSync").Str("event", eventID).Logger(),
	}
}

// Start loads the initial snapshot and subscribes to guest notifications.
// On reconnect the full snapshot is refetched, since the channel keeps no
// backlog to replay missed notifications from.
func (s *GuestSyncer) Start(ctx context.Context) error {
	if err := s.Refetch(ctx); err != nil {
		return err
	}

	s.unsubscribe = append(s.unsubscribe,
		s.channel.Subscribe(realtime.EventNewGuest, func(data json.RawMessage) {
			if g, ok := s.decodeGuest(data); ok {
				s.store.ApplyAdd(g)
			}
		}),
		s.channel.Subscribe(realtime.EventGuestUpdated, func(data json.RawMessage) {
			if g, ok := s.decodeGuest(data); ok {
				s.store.ApplyUpdate(g)
			}
		}),
	)

	s.channel.OnReconnect(func() {
		if err := s.Refetch(ctx); err != nil {
			s.log.Error().Err(err).Msg("snapshot refetch after reconnect failed")
		}
	})
	return nil
}

// Stop removes the channel subscriptions.
func (s *GuestSyncer) Stop() {
	for _, fn := range s.unsubscribe {
		fn()
	}
	s.unsubscribe = nil
}

// Refetch replaces the whole list with a fresh server snapshot.
func (s *GuestSyncer) Refetch(ctx context.Context) error {
	guests, err := s.api.GuestsByEvent(ctx, s.eventID)
	if err != nil {
		return fmt.Errorf("fetch guest snapshot: %w", err)
	}
	s.store.ReplaceAll(guests)
	return nil
}

// AddGuest creates the guest remotely, merges the acknowledged record into
// the local list, then notifies other clients. The local merge never
// happens before the server responds, so a failed create leaves no
// divergent optimistic state behind.
func (s *GuestSyncer) AddGuest(ctx context.Context, g models.Guest) (models.Guest, error) {
	created, err := s.api.CreateGuest(ctx, g)
	if err != nil {
		return models.Guest{}, err
	}
	s.store.ApplyAdd(created)
	if err := s.channel.Emit(ctx, realtime.EventNewGuest, created); err != nil {
		s.log.Warn().Err(err).Msg("failed to notify other clients of new guest")
	}
	return created, nil
}

// EditGuest persists a host edit and merges the acknowledged record.
func (s *GuestSyncer) EditGuest(ctx context.Context, g models.Guest) (models.Guest, error) {
	updated, err := s.api.UpdateGuest(ctx, g)
	if err != nil {
		return models.Guest{}, err
	}
	s.store.ApplyUpdate(updated)
	if err := s.channel.Emit(ctx, realtime.EventGuestUpdated, updated); err != nil {
		s.log.Warn().Err(err).Msg("failed to notify other clients of guest update")
	}
	return updated, nil
}

// RemoveGuest deletes the guest remotely, then locally.
func (s *GuestSyncer) RemoveGuest(ctx context.Context, guestID string) error {
	if err := s.api.DeleteGuest(ctx, guestID); err != nil {
		return err
	}
	s.store.ApplyDelete(guestID)
	return nil
}

// ReplaceGuest swaps a new person into an existing invitation slot. The
// replacement takes over the old guest's id with a fresh pending RSVP.
func (s *GuestSyncer) ReplaceGuest(ctx context.Context, guestID string, g models.Guest) (models.Guest, error) {
	g.ID = guestID
	g.Status = models.StatusPending
	g.AdditionalGuestNames = []string{}
	g.SuggestedSongs = []string{}

	updated, err := s.api.UpdateGuest(ctx, g)
	if err != nil {
		return models.Guest{}, err
	}
	s.store.ApplyReplace(guestID, updated)
	if err := s.channel.Emit(ctx, realtime.EventGuestUpdated, updated); err != nil {
		s.log.Warn().Err(err).Msg("failed to notify other clients of guest replacement")
	}
	return updated, nil
}

// ConfirmGuest submits an RSVP answer on a guest's behalf (used by the
// WhatsApp quick-reply path), then merges the resulting record and
// notifies other clients. A declined answer never carries companion or
// song data forward.
func (s *GuestSyncer) ConfirmGuest(ctx context.Context, guestID string, conf api.Confirmation) (models.Guest, error) {
	// Resolve the guest before the remote write so a miss never leaves an
	// acknowledged confirmation behind with no local merge or broadcast.
	g, ok := s.store.Get(guestID)
	if !ok {
		return models.Guest{}, fmt.Errorf("guest %s not in local list", guestID)
	}

	if err := s.api.ConfirmRSVP(ctx, guestID, conf); err != nil {
		return models.Guest{}, err
	}

	g.Status = conf.Status
	g.AdditionalGuestNames = conf.AdditionalGuestNames
	g.SuggestedSongs = conf.SuggestedSongs
	if conf.PersonalMessage != "" {
		g.PersonalMessage = conf.PersonalMessage
	}
	s.store.ApplyUpdate(g)
	if err := s.channel.Emit(ctx, realtime.EventGuestUpdated, g); err != nil {
		s.log.Warn().Err(err).Msg("failed to notify other clients of rsvp answer")
	}
	return g, nil
}

func (s *GuestSyncer) decodeGuest(data json.RawMessage) (models.Guest, bool) {
	var g models.Guest
	if err := json.Unmarshal(data, &g); err != nil {
		s.log.Error().Err(err).Msg("failed to decode guest notification")
		return models.Guest{}, false
	}
	return g, true
}
