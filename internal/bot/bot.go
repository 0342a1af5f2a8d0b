package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/dogspotter/GoodNameAlert/internal/domain"
	"github.com/dogspotter/GoodNameAlert/internal/platform/correlation"
	"github.com/dogspotter/GoodNameAlert/internal/platform/retry"
)

// Transport is the session capability the loop consumes.
type Transport interface {
	Connect(ctx context.Context) error
	ReceiveBatch(ctx context.Context) ([]domain.Event, error)
}

// Dispatcher evaluates one inbound event against the trigger bindings.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev domain.Event)
}

// Config tunes the poll loop.
type Config struct {
	// PollInterval is the sleep between receive cycles.
	PollInterval time.Duration

	// Reconnect bounds the RECOVERING state. Zero values get defaults.
	Reconnect retry.Policy

	// DebugCalls are posted once after the initial connect.
	DebugCalls []domain.DebugCall
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = time.Second
	}
	if c.Reconnect.MaxAttempts <= 0 {
		c.Reconnect.MaxAttempts = 8
	}
	if c.Reconnect.InitialBackoff <= 0 {
		c.Reconnect.InitialBackoff = time.Second
	}
	if c.Reconnect.MaxBackoff <= 0 {
		c.Reconnect.MaxBackoff = 30 * time.Second
	}
	return c
}

type Bot struct {
	transport  Transport
	dispatcher Dispatcher
	sender     domain.Sender
	clock      clockwork.Clock
	cfg        Config
}

func New(transport Transport, dispatcher Dispatcher, sender domain.Sender, clock clockwork.Clock, cfg Config) *Bot {
	return &Bot{
		transport:  transport,
		dispatcher: dispatcher,
		sender:     sender,
		clock:      clock,
		cfg:        cfg.withDefaults(),
	}
}

// Run connects and polls until ctx is cancelled. The initial connect is
// fatal on failure; later transport faults go through bounded reconnect.
// Run returns nil on cancellation and an error only when startup or
// recovery is beyond saving.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.transport.Connect(ctx); err != nil {
		return fmt.Errorf("initial connect: %w", err)
	}
	slog.InfoContext(ctx, "Connection established")

	b.debugCalls(ctx)

	for {
		if err := b.tick(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.ErrorContext(ctx, "Event read failed, entering recovery", "error", err)
			if err := b.recover(ctx); err != nil {
				return fmt.Errorf("recovery: %w", err)
			}
			slog.InfoContext(ctx, "Connection re-established")
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case <-b.clock.After(b.cfg.PollInterval):
		}
	}
}

// tick is one RUNNING cycle: receive a batch and dispatch every event,
// each under its own correlation ID.
func (b *Bot) tick(ctx context.Context) error {
	events, err := b.transport.ReceiveBatch(ctx)
	if err != nil {
		return err
	}

	for _, ev := range events {
		evCtx := correlation.WithID(ctx, correlation.NewID())
		b.dispatcher.Dispatch(evCtx, ev)
	}
	return nil
}

func (b *Bot) recover(ctx context.Context) error {
	policy := b.cfg.Reconnect
	policy.OnRetry = func(attempt int, err error, backoff time.Duration) {
		slog.WarnContext(ctx, "Reconnect attempt failed", "attempt", attempt, "backoff", backoff, "error", err)
	}

	return retry.Do(ctx, b.clock, policy, func() error {
		return b.transport.Connect(ctx)
	})
}

// debugCalls issues the optional startup posts from the bindings file.
func (b *Bot) debugCalls(ctx context.Context) {
	for _, call := range b.cfg.DebugCalls {
		slog.DebugContext(ctx, "Issuing startup debug call", "channel", call.Channel, "text", call.Text)
		b.sender.Send(ctx, call.Channel, call.Text)
	}
}
