package domain

import "time"

// Entry is one curated phrase record. Text is the natural key: it is
// normalized on insertion and unique (case-normalized) across the store.
type Entry struct {
	Text    string
	AddedBy string
	AddedAt time.Time
	Season  string
	Votes   map[string]int
}

// TriggerBinding pairs a trigger pattern with a named action. Bindings are
// configured once at startup and are immutable for the process lifetime.
type TriggerBinding struct {
	Trigger string `yaml:"trigger"`
	Action  string `yaml:"action"`
}

// DebugCall is an optional startup post issued once after connecting,
// before the poll loop starts.
type DebugCall struct {
	Channel string `yaml:"channel"`
	Text    string `yaml:"text"`
}
