package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"wedding-invites/internal/models"
	"wedding-invites/internal/realtime"
	"wedding-invites/internal/store"
)

// EventAPI is the slice of the remote client the event syncer needs.
type EventAPI interface {
	Events(ctx context.Context) ([]models.Event, error)
	CreateEvent(ctx context.Context, e models.Event) (models.Event, error)
}

// EventSyncer owns the host dashboard's event list.
type EventSyncer struct {
	api     EventAPI
	store   *store.EventStore
	channel realtime.Channel
	log     zerolog.Logger

	unsubscribe []func()
}

// NewEventSyncer wires a syncer for the dashboard.
func NewEventSyncer(remote EventAPI, st *store.EventStore, ch realtime.Channel) *EventSyncer {
	return &EventSyncer{
		api:     remote,
		store:   st,
		channel: ch,
		log:     zerolog.New(os.Stdout).With().Str("component", "EventSync").Logger(),
	}
}

// Start loads the snapshot and subscribes to new-event notifications.
func (s *EventSyncer) Start(ctx context.Context) error {
	if err := s.Refetch(ctx); err != nil {
		return err
	}

	s.unsubscribe = append(s.unsubscribe,
		s.channel.Subscribe(realtime.EventNewEvent, func(data json.RawMessage) {
			var e models.Event
			if err := json.Unmarshal(data, &e); err != nil {
				s.log.Error().Err(err).Msg("failed to decode event notification")
				return
			}
			s.store.ApplyAdd(e)
		}),
	)

	s.channel.OnReconnect(func() {
		if err := s.Refetch(ctx); err != nil {
			s.log.Error().Err(err).Msg("event refetch after reconnect failed")
		}
	})
	return nil
}

// Stop removes the channel subscriptions.
func (s *EventSyncer) Stop() {
	for _, fn := range s.unsubscribe {
		fn()
	}
	s.unsubscribe = nil
}

// Refetch replaces the event list with a fresh server snapshot.
func (s *EventSyncer) Refetch(ctx context.Context) error {
	events, err := s.api.Events(ctx)
	if err != nil {
		return fmt.Errorf("fetch event snapshot: %w", err)
	}
	s.store.ReplaceAll(events)
	return nil
}

// CreateEvent validates and persists a new event, merges the acknowledged
// record, and notifies other clients. The future-date rule applies at
// creation only.
func (s *EventSyncer) CreateEvent(ctx context.Context, e models.Event) (models.Event, error) {
	if err := e.Validate(time.Now()); err != nil {
		return models.Event{}, err
	}
	created, err := s.api.CreateEvent(ctx, e)
	if err != nil {
		return models.Event{}, err
	}
	s.store.ApplyAdd(created)
	if err := s.channel.Emit(ctx, realtime.EventNewEvent, created); err != nil {
		s.log.Warn().Err(err).Msg("failed to notify other clients of new event")
	}
	return created, nil
}
