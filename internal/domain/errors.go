package domain

import "errors"

var (
	ErrNoEntryAvailable = errors.New("no entry available")
	ErrStoreUnavailable = errors.New("store unavailable")
)
