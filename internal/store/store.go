package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/dogspotter/GoodNameAlert/internal/domain"
)

const timeLayout = "2006-01-02 15:04:05"

// document is the on-disk shape:
//
//	{"good_names":[{"good_name":"Jerry Mander","added_by":"U04S0E2JZ",
//	 "date_added":"2017-05-14 12:00:00","season":"11","votes":{}}]}
type document struct {
	GoodNames []record `json:"good_names"`
}

type record struct {
	GoodName  string         `json:"good_name"`
	AddedBy   string         `json:"added_by"`
	DateAdded string         `json:"date_added"`
	Season    string         `json:"season"`
	Votes     map[string]int `json:"votes"`
}

// FileStore keeps the document in memory for the process lifetime and
// rewrites it durably before acknowledging an insertion. It is driven by
// the single poll goroutine and is not safe for concurrent use.
type FileStore struct {
	path   string
	season string
	clock  clockwork.Clock

	connected bool
	doc       document
	entries   map[string]domain.Entry
}

// New creates a FileStore over the document at path. New entries are
// tagged with the given season. Call Load before use.
func New(path, season string, clock clockwork.Clock) *FileStore {
	return &FileStore{
		path:    path,
		season:  season,
		clock:   clock,
		entries: make(map[string]domain.Entry),
	}
}

// Load reads the backing document and builds the in-memory index keyed by
// normalized text. On any failure the store stays disconnected and every
// operation degrades to its unavailable result; Load never propagates the
// error past this boundary.
func (s *FileStore) Load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		slog.Error("Failed to open store document", "path", s.path, "error", err)
		return
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		slog.Error("Failed to decode store document", "path", s.path, "error", err)
		return
	}

	entries := make(map[string]domain.Entry, len(doc.GoodNames))
	for _, r := range doc.GoodNames {
		entry, err := r.toEntry()
		if err != nil {
			slog.Error("Failed to decode store record", "path", s.path, "text", r.GoodName, "error", err)
			return
		}
		entries[Normalize(r.GoodName)] = entry
	}

	s.doc = doc
	s.entries = entries
	s.connected = true
	slog.Info("Store document loaded", "path", s.path, "entries", len(entries))
}

// Connected reports whether Load succeeded and no write has failed since.
func (s *FileStore) Connected() bool {
	return s.connected
}

// RandomEntry picks uniformly at random from the in-memory set. Every
// call is an independent draw; there is no recency or fairness weighting.
func (s *FileStore) RandomEntry() (domain.Entry, error) {
	if !s.connected {
		return domain.Entry{}, domain.ErrStoreUnavailable
	}
	if len(s.entries) == 0 {
		return domain.Entry{}, domain.ErrNoEntryAvailable
	}

	picks := make([]domain.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		picks = append(picks, e)
	}
	return picks[rand.IntN(len(picks))], nil
}

// AddEntry normalizes text and inserts it attributed to addedBy. The
// document is persisted first and memory updated only on success, so a
// write failure leaves no phantom entry behind. Duplicates are idempotent
// no-ops reported as added == false.
func (s *FileStore) AddEntry(ctx context.Context, text, addedBy string) (string, bool, error) {
	if !s.connected {
		slog.DebugContext(ctx, "Store unavailable, dropping entry", "text", text)
		return "", false, domain.ErrStoreUnavailable
	}

	name := Normalize(text)
	if name == "" {
		return "", false, nil
	}
	if _, ok := s.entries[name]; ok {
		return "", false, nil
	}

	now := s.clock.Now().UTC().Truncate(time.Second)
	rec := record{
		GoodName:  name,
		AddedBy:   addedBy,
		DateAdded: now.Format(timeLayout),
		Season:    s.season,
		Votes:     map[string]int{},
	}

	next := document{GoodNames: append(s.doc.GoodNames, rec)}
	if err := s.write(next); err != nil {
		s.connected = false
		slog.ErrorContext(ctx, "Failed to persist store document", "path", s.path, "error", err)
		return "", false, fmt.Errorf("persist entry: %w", err)
	}

	s.doc = next
	s.entries[name] = domain.Entry{
		Text:    name,
		AddedBy: addedBy,
		AddedAt: now,
		Season:  s.season,
		Votes:   map[string]int{},
	}
	return name, true, nil
}

// write serializes the whole document and swaps it into place atomically.
func (s *FileStore) write(doc document) error {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".good_names-*")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}

	if _, err := tmp.Write(append(out, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp document: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

func (r record) toEntry() (domain.Entry, error) {
	addedAt, err := time.Parse(timeLayout, r.DateAdded)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("parse date_added %q: %w", r.DateAdded, err)
	}

	votes := r.Votes
	if votes == nil {
		votes = map[string]int{}
	}

	return domain.Entry{
		Text:    r.GoodName,
		AddedBy: r.AddedBy,
		AddedAt: addedAt.UTC(),
		Season:  r.Season,
		Votes:   votes,
	}, nil
}
