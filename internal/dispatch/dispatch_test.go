package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dogspotter/GoodNameAlert/internal/domain"
)

type fakeStore struct {
	entries     map[string]domain.Entry
	randomErr   error
	addErr      error
	panicRandom bool
	addedTexts  []string
	addedBy     []string
}

func (f *fakeStore) Connected() bool { return true }

func (f *fakeStore) RandomEntry() (domain.Entry, error) {
	if f.panicRandom {
		panic("store blew up")
	}
	if f.randomErr != nil {
		return domain.Entry{}, f.randomErr
	}
	for _, e := range f.entries {
		return e, nil
	}
	return domain.Entry{}, domain.ErrNoEntryAvailable
}

func (f *fakeStore) AddEntry(_ context.Context, text, addedBy string) (string, bool, error) {
	if f.addErr != nil {
		return "", false, f.addErr
	}
	f.addedTexts = append(f.addedTexts, text)
	f.addedBy = append(f.addedBy, addedBy)
	return "Diana prince", true, nil
}

type fakeSender struct {
	channels []string
	texts    []string
}

func (f *fakeSender) Send(_ context.Context, channelID, text string) {
	f.channels = append(f.channels, channelID)
	f.texts = append(f.texts, text)
}

var defaultBindings = []domain.TriggerBinding{
	{Trigger: ".*name alert.*", Action: "post_good_name_alert"},
	{Trigger: "!gna(.+)", Action: "add_good_name"},
}

func event(text string) domain.Event {
	return domain.Event{Type: "message", Text: text, User: "U1", Channel: "C1"}
}

func TestDispatch_AlertPostsRandomName(t *testing.T) {
	store := &fakeStore{entries: map[string]domain.Entry{"Foo": {Text: "Foo"}}}
	sender := &fakeSender{}
	reg, err := NewRegistry(defaultBindings, store, sender)
	require.NoError(t, err)

	reg.Dispatch(context.Background(), domain.Event{Type: "message", Text: "please post a name alert now", User: "U2", Channel: "C2"})

	require.Len(t, sender.texts, 1)
	assert.Equal(t, "C2", sender.channels[0])
	assert.Equal(t, "Good name: Foo", sender.texts[0])
	assert.Empty(t, store.addedTexts, "alert must not mutate the store")
}

func TestDispatch_AlertSilentWhenNothingAvailable(t *testing.T) {
	for name, store := range map[string]*fakeStore{
		"empty store":  {randomErr: domain.ErrNoEntryAvailable},
		"disconnected": {randomErr: domain.ErrStoreUnavailable},
	} {
		t.Run(name, func(t *testing.T) {
			sender := &fakeSender{}
			reg, err := NewRegistry(defaultBindings, store, sender)
			require.NoError(t, err)

			reg.Dispatch(context.Background(), event("name alert"))

			assert.Empty(t, sender.texts)
		})
	}
}

func TestDispatch_AddSendsConfirmation(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{}
	reg, err := NewRegistry(defaultBindings, store, sender)
	require.NoError(t, err)

	reg.Dispatch(context.Background(), event("!gna Diana Prince"))

	require.Len(t, store.addedTexts, 1)
	assert.Equal(t, " Diana Prince", store.addedTexts[0], "captured group is passed raw, normalization is the store's job")
	assert.Equal(t, "U1", store.addedBy[0])

	require.Len(t, sender.texts, 1)
	assert.Equal(t, "C1", sender.channels[0])
	assert.Equal(t, "Good name Diana prince recorded.", sender.texts[0])
}

func TestDispatch_AddDuplicateSendsNothing(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{}

	reg, err := NewRegistry(defaultBindings, &duplicateStore{fakeStore: store}, sender)
	require.NoError(t, err)

	reg.Dispatch(context.Background(), event("!gna Diana Prince"))

	assert.Empty(t, sender.texts)
}

// duplicateStore reports every insertion as already present.
type duplicateStore struct{ *fakeStore }

func (d *duplicateStore) AddEntry(context.Context, string, string) (string, bool, error) {
	return "", false, nil
}

func TestDispatch_AddStoreErrorSendsNothing(t *testing.T) {
	store := &fakeStore{addErr: domain.ErrStoreUnavailable}
	sender := &fakeSender{}
	reg, err := NewRegistry(defaultBindings, store, sender)
	require.NoError(t, err)

	reg.Dispatch(context.Background(), event("!gna Diana Prince"))

	assert.Empty(t, sender.texts)
}

func TestDispatch_OverlappingBindingsBothFire(t *testing.T) {
	store := &fakeStore{entries: map[string]domain.Entry{"Foo": {Text: "Foo"}}}
	sender := &fakeSender{}
	reg, err := NewRegistry(defaultBindings, store, sender)
	require.NoError(t, err)

	// The line matches both the generic alert pattern and the !gna
	// command; both handlers run, in registration order.
	reg.Dispatch(context.Background(), event("!gna Jerry Mander name alert"))

	require.Len(t, sender.texts, 2)
	assert.Equal(t, "Good name: Foo", sender.texts[0])
	assert.Equal(t, "Good name Diana prince recorded.", sender.texts[1])
	require.Len(t, store.addedTexts, 1)
	assert.Equal(t, " Jerry Mander name alert", store.addedTexts[0])
}

func TestDispatch_MatchIsAnchoredAtLineStart(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{}
	reg, err := NewRegistry(defaultBindings, store, sender)
	require.NoError(t, err)

	// "!gna" mid-line must not trigger the addition handler.
	reg.Dispatch(context.Background(), event("try typing !gna something"))

	assert.Empty(t, store.addedTexts)
	assert.Empty(t, sender.texts)
}

func TestDispatch_MatchesCaseInsensitively(t *testing.T) {
	store := &fakeStore{entries: map[string]domain.Entry{"Foo": {Text: "Foo"}}}
	sender := &fakeSender{}
	reg, err := NewRegistry(defaultBindings, store, sender)
	require.NoError(t, err)

	reg.Dispatch(context.Background(), event("NAME ALERT please"))

	assert.Len(t, sender.texts, 1)
}

func TestDispatch_HandlerPanicIsolated(t *testing.T) {
	store := &fakeStore{panicRandom: true}
	sender := &fakeSender{}
	reg, err := NewRegistry(defaultBindings, store, sender)
	require.NoError(t, err)

	// Alert handler panics via the store; the addition binding on the
	// same line must still run.
	reg.Dispatch(context.Background(), event("!gna Jerry Mander name alert"))

	require.Len(t, store.addedTexts, 1)
	require.Len(t, sender.texts, 1)
	assert.Equal(t, "Good name Diana prince recorded.", sender.texts[0])
}

func TestNewRegistry_UnknownActionDegrades(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{}

	reg, err := NewRegistry([]domain.TriggerBinding{
		{Trigger: ".*name alert.*", Action: "summon_dog"},
	}, store, sender)
	require.NoError(t, err, "unknown action must not fail construction")

	reg.Dispatch(context.Background(), event("name alert"))

	assert.Empty(t, sender.texts, "missing-action handler sends nothing")
}

func TestNewRegistry_InvalidPattern(t *testing.T) {
	_, err := NewRegistry([]domain.TriggerBinding{
		{Trigger: "!gna(.+", Action: "add_good_name"},
	}, &fakeStore{}, &fakeSender{})

	assert.Error(t, err)
}

func TestParseAction(t *testing.T) {
	assert.Equal(t, ActionPostAlert, ParseAction("post_good_name_alert"))
	assert.Equal(t, ActionAddName, ParseAction("add_good_name"))
	assert.Equal(t, ActionMissing, ParseAction("summon_dog"))
	assert.Equal(t, ActionMissing, ParseAction(""))
}
