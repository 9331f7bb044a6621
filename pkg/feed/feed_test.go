package feed

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslink/campus/cli/internal/fakeapi"
	"github.com/campuslink/campus/cli/pkg/api"
	"github.com/campuslink/campus/cli/pkg/client"
	"github.com/campuslink/campus/cli/pkg/content"
	"github.com/campuslink/campus/cli/pkg/poll"
	"github.com/campuslink/campus/cli/pkg/toggle"
)

type fixture struct {
	srv    *fakeapi.Server
	remote *api.Client
	clock  *clockwork.FakeClock
	sync   *poll.Synchronizer
	ctrl   *toggle.Controller
}

func newFixture(t *testing.T) *fixture {
	srv := fakeapi.New(t)
	rc := client.New(client.Options{BaseURL: srv.BaseURL(), Token: "tok", Transport: http.DefaultTransport})
	remote := api.New(rc).SetRetryDelay(time.Millisecond)
	clock := clockwork.NewFakeClock()
	return &fixture{
		srv:    srv,
		remote: remote,
		clock:  clock,
		sync:   poll.New(clock, nil),
		ctrl:   toggle.NewController(remote, toggle.NewStore(), nil),
	}
}

func (fx *fixture) open(opts Options) *Feed {
	return Open(context.Background(), fx.sync, fx.remote, fx.ctrl, fx.remote, nil, opts, nil)
}

func TestFeedMergesEveryKind(t *testing.T) {
	fx := newFixture(t)
	fx.srv.AddItems(content.KindEvent, content.EventPost{Base: content.Base{ID: "e1"}, Title: "Career fair"})
	fx.srv.AddItems(content.KindAcademic, content.AcademicPost{Base: content.Base{ID: "a1"}, Title: "Timetable"})
	fx.srv.AddItems(content.KindReport, content.ReportItem{Base: content.Base{ID: "r1"}, ItemName: "Umbrella", Status: "lost"})

	f := fx.open(Options{})
	defer f.Close()

	require.Eventually(t, func() bool { return len(f.Items()) == 3 }, 2*time.Second, 5*time.Millisecond)
	items := f.Items()
	assert.Equal(t, content.KindEvent, items[0].Kind())
	assert.Equal(t, content.KindAcademic, items[1].Kind())
	assert.Equal(t, "[lost] Umbrella", content.Title(items[2]))
}

func TestFeedSeedsNewItemsOnce(t *testing.T) {
	fx := newFixture(t)
	fx.srv.SetSaved("Event", "e1", true)
	fx.srv.SetWitnessed("r1", true)
	fx.srv.AddItems(content.KindEvent, content.EventPost{Base: content.Base{ID: "e1"}})
	fx.srv.AddItems(content.KindReport, content.ReportItem{Base: content.Base{ID: "r1"}})

	f := fx.open(Options{SeedStates: true})
	defer f.Close()

	require.Eventually(t, func() bool { return len(f.Items()) == 2 }, 2*time.Second, 5*time.Millisecond)
	f.WaitSeeded()

	store := fx.ctrl.Store()
	assert.True(t, store.Get(toggle.KeyFor("e1", content.KindEvent, toggle.Saved)).Value())
	assert.True(t, store.Get(toggle.KeyFor("r1", content.KindReport, toggle.Witnessed)).Value())
	checks := fx.srv.Calls(http.MethodGet, "/saved/check/:type/:id")
	assert.Equal(t, 2, checks)

	fx.srv.AddItems(content.KindAcademic, content.AcademicPost{Base: content.Base{ID: "a1"}})
	fx.clock.Advance(DefaultInterval)
	require.Eventually(t, func() bool { return len(f.Items()) == 3 }, 2*time.Second, 5*time.Millisecond)
	f.WaitSeeded()

	// Only the new academic post is checked again
	assert.Equal(t, checks+1, fx.srv.Calls(http.MethodGet, "/saved/check/:type/:id"))
}

func TestFeedKeepsThreadsAcrossRefresh(t *testing.T) {
	fx := newFixture(t)
	fx.srv.AddItems(content.KindEvent, content.EventPost{Base: content.Base{ID: "e1"}})

	f := fx.open(Options{})
	defer f.Close()
	require.Eventually(t, func() bool { return len(f.Items()) == 1 }, 2*time.Second, 5*time.Millisecond)

	key := content.Key{ID: "e1", Kind: content.KindEvent}
	th, ok := f.Thread(key)
	require.True(t, ok)
	require.NoError(t, th.Add(context.Background(), "count me in"))

	fx.srv.SetItems(content.KindEvent, content.EventPost{Base: content.Base{ID: "e1", Comments: fx.srv.Comments("events", "e1")}})
	fx.clock.Advance(DefaultInterval)
	require.Eventually(t, func() bool {
		return fx.srv.Calls(http.MethodGet, "/events") >= 2
	}, 2*time.Second, 5*time.Millisecond)

	again, ok := f.Thread(key)
	require.True(t, ok)
	assert.Same(t, th, again)
	require.Eventually(t, func() bool { return len(again.Comments()) == 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestFeedDropsVanishedItems(t *testing.T) {
	fx := newFixture(t)
	fx.srv.AddItems(content.KindReport, content.ReportItem{Base: content.Base{ID: "r1"}}, content.ReportItem{Base: content.Base{ID: "r2"}})

	f := fx.open(Options{Kinds: []content.Kind{content.KindReport}})
	defer f.Close()
	require.Eventually(t, func() bool { return len(f.Items()) == 2 }, 2*time.Second, 5*time.Millisecond)

	fx.srv.SetItems(content.KindReport, content.ReportItem{Base: content.Base{ID: "r2"}})
	fx.clock.Advance(DefaultInterval)
	require.Eventually(t, func() bool { return len(f.Items()) == 1 }, 2*time.Second, 5*time.Millisecond)

	_, ok := f.Thread(content.Key{ID: "r1", Kind: content.KindReport})
	assert.False(t, ok)
	assert.Equal(t, 0, fx.srv.Calls(http.MethodGet, "/events"))
}

func TestFeedFirstFetchError(t *testing.T) {
	fx := newFixture(t)
	fx.srv.FailNext(http.MethodGet, "/academic", http.StatusServiceUnavailable, "maintenance")

	f := fx.open(Options{})
	defer f.Close()

	require.Eventually(t, func() bool { return f.Err() != nil }, 2*time.Second, 5*time.Millisecond)
	assert.Empty(t, f.Items())
}

func TestFeedCloseStopsSeeding(t *testing.T) {
	fx := newFixture(t)
	fx.srv.SetSaved("Event", "e1", true)
	fx.srv.AddItems(content.KindEvent, content.EventPost{Base: content.Base{ID: "e1"}})
	release := fx.srv.Hold(http.MethodGet, "/saved/check/:type/:id")
	defer release()

	f := fx.open(Options{Kinds: []content.Kind{content.KindEvent}, SeedStates: true})
	require.Eventually(t, func() bool {
		return fx.srv.Calls(http.MethodGet, "/saved/check/:type/:id") == 1
	}, 2*time.Second, 5*time.Millisecond)

	f.Close()
	release()
	f.WaitSeeded()

	assert.Equal(t, toggle.State{}, fx.ctrl.Store().Get(toggle.KeyFor("e1", content.KindEvent, toggle.Saved)))
}
