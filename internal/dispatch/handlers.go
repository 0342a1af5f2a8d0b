package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dogspotter/GoodNameAlert/internal/domain"
)

type handlers struct {
	store  domain.Store
	sender domain.Sender
}

func (h *handlers) resolve(action Action, spec domain.TriggerBinding) HandlerFunc {
	switch action {
	case ActionPostAlert:
		return h.postAlert
	case ActionAddName:
		return h.addName
	default:
		return missingAction(spec)
	}
}

// postAlert posts a random good name to the originating channel. When the
// store has nothing to offer it stays silent.
func (h *handlers) postAlert(ctx context.Context, ev domain.Event, _ []string) error {
	entry, err := h.store.RandomEntry()
	if err != nil {
		slog.DebugContext(ctx, "No good name to post", "channel", ev.Channel, "error", err)
		return nil
	}

	h.sender.Send(ctx, ev.Channel, fmt.Sprintf("Good name: %s", entry.Text))
	return nil
}

// addName idempotently records the captured text as a new good name and
// confirms to the channel only when something was actually added.
func (h *handlers) addName(ctx context.Context, ev domain.Event, matches []string) error {
	if len(matches) < 2 {
		return fmt.Errorf("add_good_name trigger captured no text (pattern needs a group)")
	}
	slog.DebugContext(ctx, "Add request", "captured", matches[1:], "user", ev.User)

	name, added, err := h.store.AddEntry(ctx, matches[1], ev.User)
	if err != nil {
		return fmt.Errorf("add good name: %w", err)
	}
	if !added {
		return nil
	}

	h.sender.Send(ctx, ev.Channel, fmt.Sprintf("Good name %s recorded.", name))
	return nil
}

// missingAction is the diagnostic handler bound when a configured action
// name resolves to nothing. It logs and sends nothing.
func missingAction(spec domain.TriggerBinding) HandlerFunc {
	return func(ctx context.Context, ev domain.Event, _ []string) error {
		slog.WarnContext(ctx, "Action for pattern did not match any known handler",
			"trigger", spec.Trigger, "action", spec.Action, "user", ev.User, "channel", ev.Channel, "text", ev.Text)
		return nil
	}
}
