// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package push

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// eventChannelBuffer absorbs short bursts between the socket reader and
// the UI event loop without reordering (a single reader goroutine feeds
// a single FIFO channel).
const eventChannelBuffer = 32

// frame is the wire envelope for both directions: a kind tag plus a
// kind-specific payload.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// joinRequest is the payload of join_user_room / join_admin_room frames.
type joinRequest struct {
	APIKey string `json:"api_key"`
}

// Config holds configuration for dialing a Channel.
type Config struct {
	// URL is the websocket endpoint (e.g., "ws://localhost:8000/ws").
	URL string
	// APIKey authenticates the connection and the group joins.
	APIKey string
	// AdminScope joins the admin broadcast group in addition to the
	// user-scoped group.
	AdminScope bool
	// Dialer is used to establish the connection. If nil,
	// websocket.DefaultDialer is used.
	Dialer *websocket.Dialer
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Channel is an open push subscription. Close it on logout; events stop
// (channel closed) when the connection ends for any reason.
type Channel struct {
	conn   *websocket.Conn
	events chan Event
	done   chan struct{}
	logger *slog.Logger

	closeOnce sync.Once

	mu  sync.Mutex
	err error
}

// Dial opens the websocket connection, joins the broadcast groups, and
// starts the reader. The context bounds connection establishment only,
// not the channel's lifetime.
func Dial(ctx context.Context, config Config) (*Channel, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("push: URL is required")
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("push: APIKey is required")
	}

	dialer := config.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	header := http.Header{}
	header.Set("X-API-Key", config.APIKey)

	conn, _, err := dialer.DialContext(ctx, config.URL, header)
	if err != nil {
		return nil, fmt.Errorf("push: dialing %s: %w", config.URL, err)
	}

	channel := &Channel{
		conn:   conn,
		events: make(chan Event, eventChannelBuffer),
		done:   make(chan struct{}),
		logger: logger,
	}

	// Join order matters only for determinism in tests; the server
	// treats the joins independently.
	join := joinRequest{APIKey: config.APIKey}
	if config.AdminScope {
		if err := channel.send("join_admin_room", join); err != nil {
			conn.Close()
			return nil, err
		}
	}
	if err := channel.send("join_user_room", join); err != nil {
		conn.Close()
		return nil, err
	}

	go channel.readLoop()
	return channel, nil
}

// Events returns the stream of decoded push events in arrival order.
// The channel is closed when the connection ends.
func (c *Channel) Events() <-chan Event {
	return c.events
}

// Close tears the connection down. Idempotent; safe to call from logout
// hooks regardless of connection state.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// Err returns the terminal read error after the event channel closes.
// A deliberate Close reports nil.
func (c *Channel) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Channel) send(kind string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("push: encoding %s: %w", kind, err)
	}
	if err := c.conn.WriteJSON(frame{Event: kind, Data: data}); err != nil {
		return fmt.Errorf("push: sending %s: %w", kind, err)
	}
	return nil
}

// readLoop decodes inbound frames and delivers recognized events in
// arrival order. Join acks and unknown kinds are dropped — the event
// set is closed by contract, and skipping keeps a newer server from
// breaking an older client.
func (c *Channel) readLoop() {
	defer close(c.events)

	for {
		var incoming frame
		if err := c.conn.ReadJSON(&incoming); err != nil {
			select {
			case <-c.done:
				// Deliberate Close; not a transport failure.
			default:
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					c.mu.Lock()
					if c.err == nil {
						c.err = err
					}
					c.mu.Unlock()
				}
			}
			return
		}

		event, ok := decodeEvent(incoming)
		if !ok {
			c.logger.Debug("dropping unrecognized push frame", "event", incoming.Event)
			continue
		}

		select {
		case c.events <- event:
		case <-c.done:
			return
		}
	}
}

// decodeEvent maps a wire frame onto the closed event set. Returns
// ok=false for join acks, unknown kinds, and malformed payloads.
func decodeEvent(incoming frame) (Event, bool) {
	switch EventKind(incoming.Event) {
	case KindCommandExecuted:
		var payload CommandExecuted
		if err := json.Unmarshal(incoming.Data, &payload); err != nil {
			return Event{}, false
		}
		return Event{Kind: KindCommandExecuted, CommandExecuted: &payload}, true

	case KindCreditUpdate:
		var payload CreditUpdate
		if err := json.Unmarshal(incoming.Data, &payload); err != nil {
			return Event{}, false
		}
		return Event{Kind: KindCreditUpdate, CreditUpdate: &payload}, true

	case KindApprovalUpdate:
		var payload ApprovalUpdate
		if err := json.Unmarshal(incoming.Data, &payload); err != nil {
			return Event{}, false
		}
		return Event{Kind: KindApprovalUpdate, ApprovalUpdate: &payload}, true
	}

	return Event{}, false
}
