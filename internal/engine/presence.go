package engine

import (
	"context"

	"keywatch/internal/custody"
	notifymodels "keywatch/internal/notify/models"
	"keywatch/internal/presence/models"
	"keywatch/internal/presence/occupancy"
	id "keywatch/pkg/domain"
	dErrors "keywatch/pkg/domain-errors"
	"keywatch/pkg/requestcontext"
)

// PresenceResult is what a presence change did.
type PresenceResult struct {
	Member        models.Member          `json:"member"`
	StateChanges  []id.KeyID             `json:"state_changes"`
	Transitions   []custody.Transition   `json:"transitions"`
	Notifications []notifymodels.Message `json:"notifications"`
}

// OnPresenceReport records the member's new location and reconciles every
// key. displayNameIfNew registers an unknown member; without it an unknown
// member is rejected with CodeNotFound.
func (e *Engine) OnPresenceReport(ctx context.Context, memberID id.MemberID, displayNameIfNew string, loc id.Location) (PresenceResult, error) {
	if !loc.IsValid() {
		return PresenceResult{}, dErrors.New(dErrors.CodeInvalidInput, "invalid location")
	}
	if displayNameIfNew != "" {
		e.Register(ctx, memberID, displayNameIfNew)
	}

	if _, err := e.registry.SetLocation(ctx, memberID, loc); err != nil {
		return PresenceResult{}, err
	}
	res, err := e.reconcile(ctx, memberID)
	if err != nil {
		return res, err
	}
	e.publish(ctx, res.Notifications)
	return res, nil
}

// OnRoomVacated is a member inside loc declaring it empty: everyone at loc
// moves one step outward, then keys are reconciled with the reporter as the
// one who vacated. A member who is not at loc changes nothing.
func (e *Engine) OnRoomVacated(ctx context.Context, memberID id.MemberID, loc id.Location) (PresenceResult, error) {
	res, err := e.vacate(ctx, memberID, loc)
	if err != nil {
		return res, err
	}
	e.publish(ctx, res.Notifications)
	return res, nil
}

func (e *Engine) vacate(ctx context.Context, memberID id.MemberID, loc id.Location) (PresenceResult, error) {
	if !loc.IsValid() {
		return PresenceResult{}, dErrors.New(dErrors.CodeInvalidInput, "invalid location")
	}
	m, err := e.registry.Get(ctx, memberID)
	if err != nil {
		return PresenceResult{}, err
	}
	if m.Location != loc {
		return PresenceResult{Member: m}, nil
	}

	moved := e.registry.EvictLocation(ctx, loc, memberID)
	e.logger.InfoContext(ctx, "location vacated",
		"location", loc.String(),
		"reported_by", memberID.String(),
		"moved", len(moved),
		"request_id", requestcontext.RequestID(ctx),
	)
	return e.reconcile(ctx, memberID)
}

// reconcile recomputes every key from the current registry snapshot, one key
// lock at a time in id.Keys order. A key going ambiguous is offered to the
// room's last leaver as recorded by the registry, whichever report's
// reconcile observes the room empty first. Callers publish the notifications.
func (e *Engine) reconcile(ctx context.Context, memberID id.MemberID) (PresenceResult, error) {
	now := requestcontext.Now(ctx)
	var res PresenceResult

	for _, keyID := range e.keys.Tracked() {
		e.keys.WithKey(keyID, func(k *custody.Key) {
			members := e.registry.All(ctx)
			occupied := occupancy.Occupied(members, keyID.Room())
			var leaver id.MemberID
			if !occupied {
				leaver = e.registry.LastVacated(ctx, keyID.Room())
			}
			t := k.Reconcile(occupied, leaver, now)
			e.recordTransition(ctx, t)
			res.Transitions = append(res.Transitions, t)
			if t.Changed() {
				res.StateChanges = append(res.StateChanges, keyID)
				res.Notifications = append(res.Notifications,
					notifymodels.NewCustodyChanged(t, subscribersOf(members), now))
			}
			if t.Issued != nil {
				res.Notifications = append(res.Notifications,
					notifymodels.NewConfirmationPrompt(*t.Issued, now))
			}
		})
	}

	m, err := e.registry.Get(ctx, memberID)
	if err != nil {
		return res, err
	}
	res.Member = m
	return res, nil
}

func subscribersOf(members []models.Member) []id.MemberID {
	var out []id.MemberID
	for _, m := range members {
		if m.Notify {
			out = append(out, m.ID)
		}
	}
	return out
}
