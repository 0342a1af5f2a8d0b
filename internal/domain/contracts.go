package domain

import "context"

// Store is the durable collection of curated entries.
type Store interface {
	// Connected reports whether the backing document loaded successfully
	// and no subsequent write failure occurred.
	Connected() bool

	// RandomEntry returns one entry chosen uniformly at random, or
	// ErrNoEntryAvailable / ErrStoreUnavailable when there is nothing to
	// return. Selection is independent across calls.
	RandomEntry() (Entry, error)

	// AddEntry normalizes text and inserts a new entry attributed to
	// addedBy. A duplicate of an existing entry is an idempotent no-op
	// reported as added == false with a nil error. On success it returns
	// the normalized text, which has already been durably persisted.
	AddEntry(ctx context.Context, text, addedBy string) (normalized string, added bool, err error)
}

// Sender posts a text message to a destination channel. Transport
// failures are logged at the session boundary and never surface here.
type Sender interface {
	Send(ctx context.Context, channelID, text string)
}
