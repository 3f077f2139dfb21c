package sync

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-invites/internal/api"
	"wedding-invites/internal/models"
	"wedding-invites/internal/realtime"
	"wedding-invites/internal/store"
)

type fakeGuestAPI struct {
	snapshot   []models.Guest
	fetchErr   error
	createErr  error
	updateErr  error
	deleteErr  error
	confirmErr error

	fetches   int
	created   []models.Guest
	updated   []models.Guest
	deleted   []string
	confirmed map[string]api.Confirmation
}

func (f *fakeGuestAPI) GuestsByEvent(context.Context, string) ([]models.Guest, error) {
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.snapshot, nil
}

func (f *fakeGuestAPI) CreateGuest(_ context.Context, g models.Guest) (models.Guest, error) {
	if f.createErr != nil {
		return models.Guest{}, f.createErr
	}
	g.ID = "srv-1"
	f.created = append(f.created, g)
	return g, nil
}

func (f *fakeGuestAPI) UpdateGuest(_ context.Context, g models.Guest) (models.Guest, error) {
	if f.updateErr != nil {
		return models.Guest{}, f.updateErr
	}
	f.updated = append(f.updated, g)
	return g, nil
}

func (f *fakeGuestAPI) DeleteGuest(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeGuestAPI) ConfirmRSVP(_ context.Context, id string, conf api.Confirmation) error {
	if f.confirmErr != nil {
		return f.confirmErr
	}
	if f.confirmed == nil {
		f.confirmed = make(map[string]api.Confirmation)
	}
	f.confirmed[id] = conf
	return nil
}

func newTestSyncer(t *testing.T, remote *fakeGuestAPI) (*GuestSyncer, *store.GuestStore, *realtime.MemoryChannel) {
	t.Helper()
	st := store.NewGuestStore()
	ch := realtime.NewMemoryChannel()
	s := NewGuestSyncer(remote, st, ch, "e1")
	require.NoError(t, s.Start(context.Background()))
	return s, st, ch
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestGuestSyncer_StartLoadsSnapshot(t *testing.T) {
	remote := &fakeGuestAPI{snapshot: []models.Guest{{ID: "1", Name: "Ana"}}}
	_, st, _ := newTestSyncer(t, remote)

	require.Equal(t, 1, st.Len())
	g, _ := st.Get("1")
	assert.Equal(t, models.StatusPending, g.Status)
}

func TestGuestSyncer_InboundNotificationsMerge(t *testing.T) {
	remote := &fakeGuestAPI{}
	_, st, ch := newTestSyncer(t, remote)

	ch.Deliver(realtime.EventNewGuest, mustJSON(t, models.Guest{ID: "1", Name: "Ana"}))
	ch.Deliver(realtime.EventNewGuest, mustJSON(t, models.Guest{ID: "1", Name: "Ana again"}))
	ch.Deliver(realtime.EventGuestUpdated, mustJSON(t, models.Guest{ID: "1", Name: "Ana María", Status: models.StatusConfirmed}))
	ch.Deliver(realtime.EventGuestUpdated, mustJSON(t, models.Guest{ID: "ghost"}))

	require.Equal(t, 1, st.Len())
	g, _ := st.Get("1")
	assert.Equal(t, "Ana María", g.Name)
	assert.Equal(t, models.StatusConfirmed, g.Status)
}

func TestGuestSyncer_ReconnectRefetchesSnapshot(t *testing.T) {
	remote := &fakeGuestAPI{snapshot: []models.Guest{{ID: "1", Name: "Ana"}}}
	_, st, ch := newTestSyncer(t, remote)
	require.Equal(t, 1, remote.fetches)

	// Notifications missed during the gap only exist server-side.
	remote.snapshot = []models.Guest{{ID: "1", Name: "Ana"}, {ID: "2", Name: "Luis"}}
	ch.FireReconnect()

	assert.Equal(t, 2, remote.fetches, "reconnect triggers a full snapshot refetch")
	assert.Equal(t, 2, st.Len())
}

func TestGuestSyncer_AddGuestWaitsForAckThenEmits(t *testing.T) {
	remote := &fakeGuestAPI{}
	s, st, ch := newTestSyncer(t, remote)

	var emitted []models.Guest
	ch.Subscribe(realtime.EventNewGuest, func(data json.RawMessage) {
		var g models.Guest
		require.NoError(t, json.Unmarshal(data, &g))
		emitted = append(emitted, g)
	})

	created, err := s.AddGuest(context.Background(), models.Guest{Name: "Ana", Phone: "521555"})
	require.NoError(t, err)

	assert.Equal(t, "srv-1", created.ID, "id is server-assigned")
	_, ok := st.Get("srv-1")
	assert.True(t, ok, "local merge happens after the ack")
	require.Len(t, emitted, 1)
	assert.Equal(t, "srv-1", emitted[0].ID)
}

func TestGuestSyncer_FailedCreateLeavesNoLocalState(t *testing.T) {
	remote := &fakeGuestAPI{createErr: errors.New("boom")}
	s, st, _ := newTestSyncer(t, remote)

	_, err := s.AddGuest(context.Background(), models.Guest{Name: "Ana"})

	require.Error(t, err)
	assert.Equal(t, 0, st.Len(), "no optimistic state on failure")
}

func TestGuestSyncer_RemoveGuest(t *testing.T) {
	remote := &fakeGuestAPI{snapshot: []models.Guest{{ID: "1", Name: "Ana"}}}
	s, st, _ := newTestSyncer(t, remote)

	require.NoError(t, s.RemoveGuest(context.Background(), "1"))

	assert.Equal(t, []string{"1"}, remote.deleted)
	assert.Equal(t, 0, st.Len())
}

func TestGuestSyncer_FailedDeleteKeepsGuest(t *testing.T) {
	remote := &fakeGuestAPI{
		snapshot:  []models.Guest{{ID: "1", Name: "Ana"}},
		deleteErr: errors.New("boom"),
	}
	s, st, _ := newTestSyncer(t, remote)

	require.Error(t, s.RemoveGuest(context.Background(), "1"))
	assert.Equal(t, 1, st.Len())
}

func TestGuestSyncer_ReplaceGuestResetsRSVP(t *testing.T) {
	remote := &fakeGuestAPI{snapshot: []models.Guest{{
		ID:                   "1",
		Name:                 "Luis",
		Status:               models.StatusConfirmed,
		AdditionalGuestNames: []string{"Marta"},
	}}}
	s, st, _ := newTestSyncer(t, remote)

	updated, err := s.ReplaceGuest(context.Background(), "1", models.Guest{Name: "Carmen", Phone: "525123"})
	require.NoError(t, err)

	assert.Equal(t, "1", updated.ID)
	assert.Equal(t, models.StatusPending, updated.Status)

	g, _ := st.Get("1")
	assert.Equal(t, "Carmen", g.Name)
	assert.Equal(t, models.StatusPending, g.Status)
	assert.Empty(t, g.AdditionalGuestNames)
}

func TestGuestSyncer_ConfirmGuestDeclineClearsLists(t *testing.T) {
	remote := &fakeGuestAPI{snapshot: []models.Guest{{
		ID:                   "1",
		Name:                 "Ana",
		SuggestedSongs:       []string{"X"},
		AdditionalGuestNames: []string{"Marta"},
	}}}
	s, st, _ := newTestSyncer(t, remote)

	conf := api.Confirmation{
		WillAttend:           false,
		Status:               models.StatusDeclined,
		AdditionalGuestNames: []string{},
		SuggestedSongs:       []string{},
	}
	g, err := s.ConfirmGuest(context.Background(), "1", conf)
	require.NoError(t, err)

	assert.Equal(t, models.StatusDeclined, g.Status)
	assert.Empty(t, g.AdditionalGuestNames)
	assert.Empty(t, g.SuggestedSongs)

	stored, _ := st.Get("1")
	assert.Equal(t, models.StatusDeclined, stored.Status)
	assert.Empty(t, stored.SuggestedSongs)
}

func TestGuestSyncer_ConfirmGuestUnknownIDSkipsRemoteWrite(t *testing.T) {
	remote := &fakeGuestAPI{}
	s, _, _ := newTestSyncer(t, remote)

	_, err := s.ConfirmGuest(context.Background(), "ghost", api.Confirmation{
		WillAttend: true,
		Status:     models.StatusConfirmed,
	})
	require.Error(t, err)
	assert.Empty(t, remote.confirmed)
}

func TestGuestSyncer_StopUnsubscribes(t *testing.T) {
	remote := &fakeGuestAPI{}
	s, st, ch := newTestSyncer(t, remote)

	s.Stop()
	ch.Deliver(realtime.EventNewGuest, mustJSON(t, models.Guest{ID: "1"}))

	assert.Equal(t, 0, st.Len())
}
