package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	capi "github.com/ovchar/miniapp-bet-client/pkg/contracts/api"
)

type fakeAPI struct {
	events []capi.Event
	err    error
	calls  int
}

func (f *fakeAPI) ListEvents(ctx context.Context) ([]capi.Event, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func fixtureEvents(now time.Time) []capi.Event {
	at := func(d time.Duration) string { return now.Add(d).UTC().Format(time.RFC3339) }
	return []capi.Event{
		{ID: "evt_1", Category: "football", CommenceTime: at(-30 * time.Minute), OddsDraw: 3.4},
		{ID: "evt_2", Category: "football", CommenceTime: at(2 * time.Hour), OddsDraw: 3.6},
		{ID: "evt_3", Category: "basketball", CommenceTime: at(-10 * time.Minute)},
		{ID: "evt_4", Category: "tennis", CommenceTime: at(5 * time.Hour)},
	}
}

func loaded(t *testing.T, events []capi.Event) (*Catalog, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{events: events}
	c := New(api)
	require.NoError(t, c.Load(context.Background()))
	return c, api
}

func ids(events []capi.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestFilterByCategory_PreservesServerOrder(t *testing.T) {
	c, api := loaded(t, fixtureEvents(time.Now()))

	assert.Equal(t, []string{"evt_1", "evt_2"}, ids(c.FilterByCategory("football")))
	assert.Equal(t, []string{"evt_3"}, ids(c.FilterByCategory("basketball")))
	assert.Empty(t, c.FilterByCategory("esports"))
	// Filtrar é projeção sobre o snapshot, não nova busca.
	assert.Equal(t, 1, api.calls)
}

func TestFilterByCategory_AllIsIdentity(t *testing.T) {
	c, _ := loaded(t, fixtureEvents(time.Now()))
	assert.Equal(t, ids(c.Events()), ids(c.FilterByCategory(CategoryAll)))
	assert.Equal(t, ids(c.Events()), ids(c.FilterByCategory("")))
}

func TestCategories_DistinctInFirstSeenOrder(t *testing.T) {
	c, _ := loaded(t, fixtureEvents(time.Now()))
	assert.Equal(t, []string{"football", "basketball", "tennis"}, c.Categories())
}

func TestIsLive_CommenceBoundary(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) string { return now.Add(d).Format(time.RFC3339) }

	assert.True(t, IsLive(capi.Event{CommenceTime: at(-time.Minute)}, now))
	assert.True(t, IsLive(capi.Event{CommenceTime: at(0)}, now), "commence exatamente agora é live")
	assert.False(t, IsLive(capi.Event{CommenceTime: at(time.Minute)}, now))
	assert.False(t, IsLive(capi.Event{CommenceTime: "not-a-timestamp"}, now))
	assert.False(t, IsLive(capi.Event{}, now))
}

func TestLiveUpcoming_PartitionSnapshot(t *testing.T) {
	now := time.Now()
	c, _ := loaded(t, fixtureEvents(now))

	assert.Equal(t, []string{"evt_1", "evt_3"}, ids(c.Live(now)))
	assert.Equal(t, []string{"evt_2", "evt_4"}, ids(c.Upcoming(now)))
}

func TestHasDraw_NonPositiveSentinel(t *testing.T) {
	assert.True(t, HasDraw(capi.Event{OddsDraw: 3.4}))
	assert.False(t, HasDraw(capi.Event{OddsDraw: 0}))
	assert.False(t, HasDraw(capi.Event{OddsDraw: -1}))
}

func TestLoad_ErrorKeepsPreviousSnapshot(t *testing.T) {
	c, api := loaded(t, fixtureEvents(time.Now()))
	api.err = assert.AnError

	require.Error(t, c.Load(context.Background()))
	assert.Len(t, c.Events(), 4)
}
