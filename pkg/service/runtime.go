package service

import (
	"github.com/jonboulle/clockwork"

	"github.com/campuslink/campus/cli/pkg/api"
	"github.com/campuslink/campus/cli/pkg/chat"
	"github.com/campuslink/campus/cli/pkg/client"
	"github.com/campuslink/campus/cli/pkg/config"
	"github.com/campuslink/campus/cli/pkg/feed"
	"github.com/campuslink/campus/cli/pkg/metrics"
	"github.com/campuslink/campus/cli/pkg/output"
	"github.com/campuslink/campus/cli/pkg/poll"
	"github.com/campuslink/campus/cli/pkg/toggle"
)

// Runtime bundles what every service needs for one command
type Runtime struct {
	API      *api.Client
	Sync     *poll.Synchronizer
	Metrics  *metrics.Metrics
	Settings config.Settings
	Out      *output.Printer

	// Toggles is the action-state store of the command's view
	Toggles *toggle.Store
}

// NewRuntime wires the shared HTTP client, the real clock and the
// default metrics registry.
func NewRuntime(settings config.Settings, out *output.Printer) *Runtime {
	client.Init(client.Options{BaseURL: settings.BaseURL, Timeout: settings.Timeout})
	m := metrics.Initialize()
	return &Runtime{
		API:      api.Default(),
		Sync:     poll.New(clockwork.NewRealClock(), m),
		Metrics:  m,
		Settings: settings,
		Out:      out,
		Toggles:  toggle.NewStore(),
	}
}

// Controller builds a toggle controller over the runtime's store
func (rt *Runtime) Controller() *toggle.Controller {
	return toggle.NewController(rt.API, rt.Toggles, rt.Metrics)
}

func (rt *Runtime) inboxOptions() chat.Options {
	return chat.Options{Interval: rt.Settings.InboxInterval, Ordered: rt.Settings.OrderedPolling}
}

func (rt *Runtime) threadOptions() chat.Options {
	return chat.Options{Interval: rt.Settings.ThreadInterval, Ordered: rt.Settings.OrderedPolling}
}

func (rt *Runtime) feedOptions() feed.Options {
	return feed.Options{Interval: rt.Settings.FeedInterval, Ordered: rt.Settings.OrderedPolling, SeedStates: true}
}
