package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/dogspotter/GoodNameAlert/internal/domain"
)

// HandlerFunc is invoked with the captured groups of the matched pattern
// (matches[0] is the whole match) and the originating event.
type HandlerFunc func(ctx context.Context, ev domain.Event, matches []string) error

type binding struct {
	pattern *regexp.Regexp
	action  Action
	handler HandlerFunc
}

// Registry holds the ordered trigger bindings. It is built once at
// startup and immutable afterwards.
type Registry struct {
	bindings []binding
}

// NewRegistry compiles the configured bindings into a registry backed by
// the given store and sender. Patterns match case-insensitively, anchored
// at the start of the trimmed line. An invalid pattern is a configuration
// error; an unknown action name degrades to the missing-action handler.
func NewRegistry(specs []domain.TriggerBinding, store domain.Store, sender domain.Sender) (*Registry, error) {
	h := &handlers{store: store, sender: sender}

	r := &Registry{bindings: make([]binding, 0, len(specs))}
	for _, spec := range specs {
		pattern, err := regexp.Compile(`(?i)\A(?:` + spec.Trigger + `)`)
		if err != nil {
			return nil, fmt.Errorf("compile trigger %q: %w", spec.Trigger, err)
		}

		action := ParseAction(spec.Action)
		if action == ActionMissing {
			slog.Warn("Unknown action name, binding degraded", "action", spec.Action, "trigger", spec.Trigger)
		}

		r.bindings = append(r.bindings, binding{
			pattern: pattern,
			action:  action,
			handler: h.resolve(action, spec),
		})
	}
	return r, nil
}

// Dispatch evaluates line against every binding in registration order and
// invokes each one that matches.
func (r *Registry) Dispatch(ctx context.Context, ev domain.Event) {
	line := strings.TrimSpace(ev.Text)
	for _, b := range r.bindings {
		matches := b.pattern.FindStringSubmatch(line)
		if matches == nil {
			continue
		}
		r.invoke(ctx, b, ev, matches)
	}
}

// invoke isolates one handler call: a panic or error is logged and does
// not stop the remaining bindings from running on the same line.
func (r *Registry) invoke(ctx context.Context, b binding, ev domain.Event, matches []string) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.ErrorContext(ctx, "Handler panicked", "action", b.action.String(), "panic", rec)
		}
	}()

	if err := b.handler(ctx, ev, matches); err != nil {
		slog.WarnContext(ctx, "Handler failed", "action", b.action.String(), "error", err)
	}
}
