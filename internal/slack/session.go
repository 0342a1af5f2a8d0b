package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/dogspotter/GoodNameAlert/internal/domain"
)

const (
	eventBuffer = 64

	// Slack allows roughly one posted message per second per channel.
	sendRate  = rate.Limit(1)
	sendBurst = 3
)

// Session owns the RTM connection lifecycle. A background reader decodes
// inbound frames into a buffered channel; ReceiveBatch drains whatever has
// arrived without blocking, so the poll loop controls all pacing.
type Session struct {
	client *Client
	dialer *websocket.Dialer

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker

	conn    *websocket.Conn
	events  chan domain.Event
	readErr chan error
}

func NewSession(client *Client) *Session {
	return &Session{
		client:  client,
		dialer:  websocket.DefaultDialer,
		limiter: rate.NewLimiter(sendRate, sendBurst),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "slack-post",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("Circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			},
		}),
	}
}

// Connect performs the rtm.connect handshake and dials the returned
// websocket URL, replacing any previous connection. The caller decides
// whether a failure is fatal (initial connect) or retried (recovery).
func (s *Session) Connect(ctx context.Context) error {
	wsURL, err := s.client.RTMConnect(ctx)
	if err != nil {
		return fmt.Errorf("rtm connect: %w", err)
	}

	conn, _, err := s.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial event stream: %w", err)
	}

	if s.conn != nil {
		s.conn.Close()
	}
	s.conn = conn
	s.events = make(chan domain.Event, eventBuffer)
	s.readErr = make(chan error, 1)
	go s.readLoop(conn, s.events, s.readErr)

	return nil
}

// Close tears down the current connection, if any.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// readLoop decodes inbound frames until the connection dies, then parks
// the read error for the next ReceiveBatch call to report.
func (s *Session) readLoop(conn *websocket.Conn, events chan<- domain.Event, readErr chan<- error) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			readErr <- fmt.Errorf("read event stream: %w", err)
			return
		}

		slog.Debug("Inbound frame", "payload", string(payload))

		var ev domain.Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			slog.Warn("Dropping undecodable frame", "error", err)
			continue
		}
		events <- ev
	}
}

// ReceiveBatch returns the events that arrived since the last call,
// already filtered down to non-empty "message" events. It never blocks:
// an idle tick yields an empty batch. A dead connection surfaces as an
// error so the poll loop can enter recovery.
func (s *Session) ReceiveBatch(ctx context.Context) ([]domain.Event, error) {
	if s.conn == nil {
		return nil, fmt.Errorf("session not connected")
	}

	var batch []domain.Event
	for {
		if err := ctx.Err(); err != nil {
			return batch, err
		}

		select {
		case ev := <-s.events:
			if wanted(ev) {
				batch = append(batch, ev)
			}
			continue
		default:
		}

		// Buffered events drained; report a dead connection if the
		// reader has parked one.
		select {
		case err := <-s.readErr:
			return batch, err
		default:
			return batch, nil
		}
	}
}

// wanted filters the stream down to dispatchable events: "message" typed
// with non-whitespace text.
func wanted(ev domain.Event) bool {
	return ev.Type == "message" && strings.TrimSpace(ev.Text) != ""
}

// Send posts text to a channel. It paces outbound calls, trips a breaker
// on repeated failures, and logs anything that goes wrong; handlers never
// see a send failure.
func (s *Session) Send(ctx context.Context, channelID, text string) {
	if err := s.limiter.Wait(ctx); err != nil {
		slog.WarnContext(ctx, "Send abandoned while rate limited", "channel", channelID, "error", err)
		return
	}

	_, err := s.breaker.Execute(func() (any, error) {
		return nil, s.client.PostMessage(ctx, channelID, text)
	})
	if err != nil {
		slog.WarnContext(ctx, "Failed to post message", "channel", channelID, "error", err)
		return
	}

	slog.DebugContext(ctx, "Posted message", "channel", channelID, "text", text)
}
