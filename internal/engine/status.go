package engine

import (
	"context"

	"keywatch/internal/custody"
	"keywatch/internal/menu"
	"keywatch/internal/presence/models"
	"keywatch/internal/presence/occupancy"
	"keywatch/internal/presence/roster"
	id "keywatch/pkg/domain"
	dErrors "keywatch/pkg/domain-errors"
)

// Status is a read-only view of the whole system.
type Status struct {
	Members   []models.Member     `json:"members"`
	Keys      []custody.State     `json:"keys"`
	Occupancy occupancy.Occupancy `json:"occupancy"`
}

// QueryStatus snapshots members, keys and occupancy. Taken under every key
// lock so custody and occupancy agree with each other.
func (e *Engine) QueryStatus(ctx context.Context) Status {
	var st Status
	e.keys.WithAll(func(keys []*custody.Key) {
		st.Members = e.registry.All(ctx)
		st.Occupancy = occupancy.Snapshot(st.Members)
		for _, k := range keys {
			st.Keys = append(st.Keys, k.Snapshot())
		}
	})
	return st
}

// Roster renders who is where.
func (e *Engine) Roster(ctx context.Context) string {
	return roster.Format(e.registry.All(ctx))
}

// MenuState computes the inputs of the member's menu. A presence change
// lands in the registry just before its keys are reconciled; custody is
// projected through the reconcile rules so the state is always reachable.
func (e *Engine) MenuState(ctx context.Context, memberID id.MemberID) (menu.State, error) {
	var (
		st  menu.State
		err error
	)
	e.keys.WithAll(func(keys []*custody.Key) {
		members := e.registry.All(ctx)
		m, found := memberIn(members, memberID)
		if !found {
			_, err = e.registry.Get(ctx, memberID)
			if err == nil {
				err = dErrors.New(dErrors.CodeNotFound, "member not found")
			}
			return
		}
		occ := occupancy.Snapshot(members)
		st = menu.State{
			Location:  m.Location,
			InLab:     occ.Lab,
			InExpRoom: occ.ExpRoom,
			OnCampus:  occ.OnCampus,
			Lab:       id.CustodyReturned,
			ExpRoom:   id.CustodyReturned,
			Notify:    m.Notify,
		}
		for _, k := range keys {
			c := projected(k.Custody(), occ.ForKey(k.ID()))
			switch k.ID() {
			case id.KeyLab:
				st.Lab = c
			case id.KeyExpRoom:
				st.ExpRoom = c
			}
		}
	})
	return st, err
}

// memberIn finds memberID in a snapshot so location and occupancy come from
// the same read.
func memberIn(members []models.Member, memberID id.MemberID) (models.Member, bool) {
	for _, m := range members {
		if m.ID == memberID {
			return m, true
		}
	}
	return models.Member{}, false
}

// Menu selects the member's menu variant.
func (e *Engine) Menu(ctx context.Context, memberID id.MemberID) (menu.Variant, error) {
	if e.menus == nil {
		return menu.Variant{}, dErrors.New(dErrors.CodeNotFound, "menu selection is not configured")
	}
	st, err := e.MenuState(ctx, memberID)
	if err != nil {
		return menu.Variant{}, err
	}
	return e.menus.Select(st)
}

// projected is the custody Reconcile would produce without a confirmation.
func projected(c id.Custody, occupied bool) id.Custody {
	switch {
	case occupied:
		return id.CustodyHeld
	case c == id.CustodyHeld:
		return id.CustodyAmbiguous
	}
	return c
}
