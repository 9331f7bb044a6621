package service

import (
	"context"

	"github.com/campuslink/campus/cli/pkg/content"
	apperrors "github.com/campuslink/campus/cli/pkg/errors"
	"github.com/campuslink/campus/cli/pkg/formatter"
	"github.com/campuslink/campus/cli/pkg/logger"
	"github.com/campuslink/campus/cli/pkg/toggle"
)

// InteractionService toggles and inspects save, witness and notify
type InteractionService struct {
	rt   *Runtime
	ctrl *toggle.Controller
}

// NewInteractionService creates a new interaction service
func NewInteractionService(rt *Runtime) *InteractionService {
	return &InteractionService{rt: rt, ctrl: rt.Controller()}
}

// Toggle seeds the current value, flips it and prints the outcome
func (s *InteractionService) Toggle(ctx context.Context, kind content.Kind, id string, action toggle.Action) error {
	logger.Debug("Toggle requested", "kind", kind, "id", id, "action", action)

	if !toggle.Supports(kind, action) {
		return apperrors.Unsupported(string(kind), string(action))
	}

	// Seed first so the flip starts from the server's value and an
	// already witnessed report issues no toggle call.
	s.ctrl.CheckStatus(ctx, id, kind, action)

	key := toggle.KeyFor(id, kind, action)
	st, err := s.ctrl.Toggle(ctx, id, kind, action)
	if err != nil {
		return err
	}

	if action == toggle.Witnessed {
		s.rt.Out.Success("✓ You are a witness of %s", key.Item)
	} else {
		s.rt.Out.Success("✓ %s is now %t for %s", action, st.Value(), key.Item)
	}
	return s.rt.Out.Record(key.Item.String(), formatter.ToggleRecord(key, st))
}

// Status prints every supported action value of an item
func (s *InteractionService) Status(ctx context.Context, kind content.Kind, id string) error {
	item := content.Key{ID: id, Kind: kind}
	s.ctrl.CheckAll(ctx, []content.Key{item})

	snapshot := make(map[string]bool)
	for key, st := range s.rt.Toggles.Snapshot() {
		if key.Item == item && st.Known {
			snapshot[string(key.Action)] = st.Value()
		}
	}
	return s.rt.Out.Table(item.String(), formatter.StatusHeaders, formatter.StatusRows(item, s.rt.Toggles), snapshot)
}

// Witnesses prints who witnessed a report
func (s *InteractionService) Witnesses(ctx context.Context, id string) error {
	witnesses, err := s.rt.API.ListWitnesses(ctx, id)
	if err != nil {
		return err
	}
	return s.rt.Out.Table("Witnesses", formatter.WitnessHeaders, formatter.WitnessRows(witnesses), witnesses)
}
