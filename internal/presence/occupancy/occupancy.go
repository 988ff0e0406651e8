// Package occupancy derives per-room presence from a member snapshot. It is
// pure: no state, no locking.
package occupancy

import (
	"keywatch/internal/presence/models"
	id "keywatch/pkg/domain"
)

// Occupancy summarises who is around.
type Occupancy struct {
	Lab      bool `json:"lab"`
	ExpRoom  bool `json:"exp_room"`
	OnCampus bool `json:"on_campus"`
}

// Occupied reports whether at least one member is in room. Only key rooms can
// be occupied; on_campus and away always report false.
func Occupied(members []models.Member, room id.Location) bool {
	if _, ok := id.KeyForRoom(room); !ok {
		return false
	}
	for _, m := range members {
		if m.Location == room {
			return true
		}
	}
	return false
}

// Snapshot computes the full occupancy picture. OnCampus is true when anyone
// is anywhere except away.
func Snapshot(members []models.Member) Occupancy {
	var o Occupancy
	for _, m := range members {
		switch m.Location {
		case id.LocationLab:
			o.Lab = true
		case id.LocationExpRoom:
			o.ExpRoom = true
		}
		if m.Location.IsOnCampus() {
			o.OnCampus = true
		}
	}
	return o
}

// ForKey returns the occupancy flag of the key's room.
func (o Occupancy) ForKey(k id.KeyID) bool {
	switch k {
	case id.KeyLab:
		return o.Lab
	case id.KeyExpRoom:
		return o.ExpRoom
	}
	return false
}
