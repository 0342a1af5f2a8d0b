package domain

// Event is one inbound transport event. Only "message" events with
// non-empty text reach the dispatch registry; everything else is filtered
// at the session boundary.
type Event struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	User    string `json:"user"`
	Channel string `json:"channel"`
}
