// Package api is the typed client for the remote invitation API. Every
// call takes a context, attaches the session's bearer token, and converts
// non-2xx responses into the small error taxonomy in errors.go. There is
// no automatic retry; a failed call surfaces an error and leaves local
// state untouched.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"wedding-invites/internal/models"
	"wedding-invites/internal/stats"
)

// Client talks to the invitation API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the given base URL. The token is attached
// to every request; public routes simply ignore it server-side.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    http.DefaultClient,
	}
}

// SetHTTPClient overrides the underlying HTTP client, mainly for tests.
func (c *Client) SetHTTPClient(h *http.Client) {
	c.http = h
}

// GuestsByEvent fetches the full guest list for an event.
func (c *Client) GuestsByEvent(ctx context.Context, eventID string) ([]models.Guest, error) {
	var guests []models.Guest
	if err := c.do(ctx, http.MethodGet, "/guest/"+eventID, nil, &guests); err != nil {
		return nil, fmt.Errorf("fetch guests: %w", err)
	}
	return guests, nil
}

// EventStats fetches the server-computed summary for an event. The client
// recomputes the same figures locally for per-card display; the two must
// stay semantically equivalent.
func (c *Client) EventStats(ctx context.Context, eventID string) (stats.Summary, error) {
	var s stats.Summary
	if err := c.do(ctx, http.MethodGet, "/guest/event/"+eventID+"/stats", nil, &s); err != nil {
		return stats.Summary{}, fmt.Errorf("fetch stats: %w", err)
	}
	return s, nil
}

// Guest fetches a single guest for the public RSVP page.
func (c *Client) Guest(ctx context.Context, guestID string) (models.Guest, error) {
	var g models.Guest
	if err := c.do(ctx, http.MethodGet, "/guest/consultar/"+guestID, nil, &g); err != nil {
		return models.Guest{}, fmt.Errorf("fetch guest: %w", err)
	}
	return g, nil
}

// Events fetches the host's event list for the dashboard.
func (c *Client) Events(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := c.do(ctx, http.MethodGet, "/events", nil, &events); err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	return events, nil
}

// CreateEvent persists a new event and returns the server-assigned record.
func (c *Client) CreateEvent(ctx context.Context, e models.Event) (models.Event, error) {
	var created models.Event
	if err := c.do(ctx, http.MethodPost, "/events", e, &created); err != nil {
		return models.Event{}, fmt.Errorf("create event: %w", err)
	}
	return created, nil
}

// Event fetches a single event.
func (c *Client) Event(ctx context.Context, eventID string) (models.Event, error) {
	var e models.Event
	if err := c.do(ctx, http.MethodGet, "/events/"+eventID, nil, &e); err != nil {
		return models.Event{}, fmt.Errorf("fetch event: %w", err)
	}
	return e, nil
}

// CreateGuest persists a new guest and returns the server-assigned record.
// The client never originates ids.
func (c *Client) CreateGuest(ctx context.Context, g models.Guest) (models.Guest, error) {
	var created models.Guest
	if err := c.do(ctx, http.MethodPost, "/guest", g, &created); err != nil {
		return models.Guest{}, fmt.Errorf("create guest: %w", err)
	}
	return created, nil
}

// UpdateGuest persists changed guest fields and returns the updated record.
func (c *Client) UpdateGuest(ctx context.Context, g models.Guest) (models.Guest, error) {
	if g.ID == "" {
		return models.Guest{}, fmt.Errorf("update guest: missing id")
	}
	var updated models.Guest
	if err := c.do(ctx, http.MethodPut, "/guest/"+g.ID, g, &updated); err != nil {
		return models.Guest{}, fmt.Errorf("update guest: %w", err)
	}
	return updated, nil
}

// DeleteGuest removes a guest.
func (c *Client) DeleteGuest(ctx context.Context, guestID string) error {
	if err := c.do(ctx, http.MethodDelete, "/guest/delete/"+guestID, nil, nil); err != nil {
		return fmt.Errorf("delete guest: %w", err)
	}
	return nil
}

// Confirmation is the RSVP submission body.
type Confirmation struct {
	WillAttend           bool               `json:"willAttend"`
	AdditionalGuestNames []string           `json:"additionalGuestNames"`
	SuggestedSongs       []string           `json:"suggestedSongs"`
	PersonalMessage      string             `json:"personalMessage"`
	Status               models.GuestStatus `json:"status"`
}

// ConfirmRSVP submits a guest's confirmation.
func (c *Client) ConfirmRSVP(ctx context.Context, guestID string, conf Confirmation) error {
	if err := c.do(ctx, http.MethodPost, "/guest/confirm/"+guestID, conf, nil); err != nil {
		return fmt.Errorf("confirm rsvp: %w", err)
	}
	return nil
}

type whatsappSendRequest struct {
	UserID string `json:"userId"`
	Phone  string `json:"phone"`
	Text   string `json:"text"`
}

// SendWhatsApp asks the server-side WhatsApp broker to deliver a message.
// The phone is normalized to bare digits without a leading plus.
func (c *Client) SendWhatsApp(ctx context.Context, userID, phone, text string) error {
	req := whatsappSendRequest{
		UserID: userID,
		Phone:  normalizeDigits(phone),
		Text:   text,
	}
	if err := c.do(ctx, http.MethodPost, "/whatsapp/send", req, nil); err != nil {
		return fmt.Errorf("send whatsapp: %w", err)
	}
	return nil
}

// normalizeDigits strips everything but digits from a phone number.
func normalizeDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
