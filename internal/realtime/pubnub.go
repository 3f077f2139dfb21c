package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	pubnub "github.com/pubnub/go/v7"
	"github.com/rs/zerolog"
)

// PubNubConfig holds the keys for one PubNub subscription.
type PubNubConfig struct {
	PublishKey   string
	SubscribeKey string
	UserID       string
	ChannelName  string
}

// PubNubChannel implements Channel on a single PubNub connection shared by
// every component in the process. Named app events are multiplexed over
// one PubNub channel via the envelope wire shape.
type PubNubChannel struct {
	pn      *pubnub.PubNub
	lis     *pubnub.Listener
	channel string
	log     zerolog.Logger

	mu        sync.RWMutex
	handlers  map[string][]subscription
	reconnect []func()
	nextSubID int
	done      chan struct{}
	closeOnce sync.Once
}

type subscription struct {
	id int
	h  Handler
}

// NewPubNubChannel connects and starts the dispatch loop.
func NewPubNubChannel(cfg PubNubConfig) *PubNubChannel {
	pnCfg := pubnub.NewConfigWithUserId(pubnub.UserId(cfg.UserID))
	pnCfg.PublishKey = cfg.PublishKey
	pnCfg.SubscribeKey = cfg.SubscribeKey

	c := &PubNubChannel{
		pn:       pubnub.NewPubNub(pnCfg),
		lis:      pubnub.NewListener(),
		channel:  cfg.ChannelName,
		log:      zerolog.New(os.Stdout).With().Str("component", "Realtime").Logger(),
		handlers: make(map[string][]subscription),
		done:     make(chan struct{}),
	}

	c.pn.AddListener(c.lis)
	go c.dispatch()
	c.pn.Subscribe().Channels([]string{c.channel}).Execute()
	return c
}

// Subscribe registers a handler for a named app event.
func (c *PubNubChannel) Subscribe(event string, h Handler) func() {
	c.mu.Lock()
	c.nextSubID++
	id := c.nextSubID
	c.handlers[event] = append(c.handlers[event], subscription{id: id, h: h})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		subs := c.handlers[event]
		for i, s := range subs {
			if s.id == id {
				c.handlers[event] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Emit publishes a snapshot under a named app event.
func (c *PubNubChannel) Emit(ctx context.Context, event string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	_, _, err = c.pn.Publish().
		Channel(c.channel).
		Message(map[string]any{"event": event, "data": json.RawMessage(raw)}).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event, err)
	}
	return nil
}

// OnReconnect registers a hook fired when the connection comes back after
// a drop.
func (c *PubNubChannel) OnReconnect(fn func()) {
	c.mu.Lock()
	c.reconnect = append(c.reconnect, fn)
	c.mu.Unlock()
}

// Close unsubscribes, destroys the SDK client and stops the dispatch
// loop.
func (c *PubNubChannel) Close() {
	c.closeOnce.Do(func() {
		c.pn.UnsubscribeAll()
		c.pn.Destroy()
		close(c.done)
	})
}

// dispatch pumps the listener's status and message channels. Messages are
// delivered to handlers in arrival order on this single goroutine, which
// is what gives subscribers per-connection FIFO.
func (c *PubNubChannel) dispatch() {
	for {
		select {
		case status := <-c.lis.Status:
			switch status.Category {
			case pubnub.PNConnectedCategory:
				c.log.Info().Msg("connected")
			case pubnub.PNDisconnectedCategory, pubnub.PNTimeoutCategory:
				c.log.Warn().Msg("disconnected")
			case pubnub.PNReconnectedCategory:
				c.log.Info().Msg("reconnected")
				c.fireReconnect()
			}

		case msg := <-c.lis.Message:
			c.handleMessage(msg)

		case <-c.done:
			return
		}
	}
}

func (c *PubNubChannel) handleMessage(msg *pubnub.PNMessage) {
	raw, err := payloadBytes(msg.Message)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to read notification payload")
		return
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.log.Error().Err(err).Msg("failed to decode notification envelope")
		return
	}

	c.mu.RLock()
	subs := make([]subscription, len(c.handlers[env.Event]))
	copy(subs, c.handlers[env.Event])
	c.mu.RUnlock()

	for _, s := range subs {
		s.h(env.Data)
	}
}

// payloadBytes converts whatever shape the SDK decoded the message into
// back to raw JSON.
func payloadBytes(message any) ([]byte, error) {
	switch m := message.(type) {
	case string:
		return []byte(m), nil
	default:
		return json.Marshal(m)
	}
}

func (c *PubNubChannel) fireReconnect() {
	c.mu.RLock()
	hooks := make([]func(), len(c.reconnect))
	copy(hooks, c.reconnect)
	c.mu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}
