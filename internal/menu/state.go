// Package menu picks the interactive menu variant shown to a member from the
// member's location, both keys' custody, room occupancy and the member's
// notification preference.
//
// The table is total over Reachable: every state the engine can produce has
// a variant, and NewSelector refuses a table that misses one.
package menu

import (
	"fmt"

	id "keywatch/pkg/domain"
)

// State is everything that decides a member's menu.
type State struct {
	Location  id.Location `json:"location" yaml:"location"`
	InLab     bool        `json:"in_lab" yaml:"in_lab"`
	InExpRoom bool        `json:"in_exp_room" yaml:"in_exp_room"`
	OnCampus  bool        `json:"on_campus" yaml:"on_campus"`
	Lab       id.Custody  `json:"lab" yaml:"lab"`
	ExpRoom   id.Custody  `json:"exp_room" yaml:"exp_room"`
	Notify    bool        `json:"notify" yaml:"notify"`
}

// Key is the table lookup key,
// location_inLab_inExp_onCampus_labCustody_expCustody_notice, e.g.
// "lab_1_0_1_held_returned_on".
//
// onCampus is 1 whenever anyone is anywhere but away, rooms included. A table
// keyed on "someone on campus outside both rooms" must be re-keyed: a lone
// member in the Lab gives lab_1_0_1_..., not lab_1_0_0_....
func (s State) Key() string {
	notice := "off"
	if s.Notify {
		notice = "on"
	}
	return fmt.Sprintf("%s_%d_%d_%d_%s_%s_%s",
		s.Location, b2i(s.InLab), b2i(s.InExpRoom), b2i(s.OnCampus), s.Lab, s.ExpRoom, notice)
}

// Valid reports whether the engine can ever produce s: the member's own
// location is reflected in the occupancy flags, and a key is held exactly
// when its room is occupied.
func (s State) Valid() bool {
	if !s.Location.IsValid() || !s.Lab.IsValid() || !s.ExpRoom.IsValid() {
		return false
	}
	switch s.Location {
	case id.LocationLab:
		if !s.InLab {
			return false
		}
	case id.LocationExpRoom:
		if !s.InExpRoom {
			return false
		}
	}
	if s.Location.IsOnCampus() && !s.OnCampus {
		return false
	}
	if (s.InLab || s.InExpRoom) && !s.OnCampus {
		return false
	}
	if (s.Lab == id.CustodyHeld) != s.InLab {
		return false
	}
	if (s.ExpRoom == id.CustodyHeld) != s.InExpRoom {
		return false
	}
	return true
}

// Reachable enumerates every valid State in a stable order.
func Reachable() []State {
	bools := []bool{false, true}
	var out []State
	for _, loc := range id.Locations {
		for _, inLab := range bools {
			for _, inExp := range bools {
				for _, onCampus := range bools {
					for _, lab := range id.Custodies {
						for _, exp := range id.Custodies {
							for _, notify := range bools {
								s := State{
									Location:  loc,
									InLab:     inLab,
									InExpRoom: inExp,
									OnCampus:  onCampus,
									Lab:       lab,
									ExpRoom:   exp,
									Notify:    notify,
								}
								if s.Valid() {
									out = append(out, s)
								}
							}
						}
					}
				}
			}
		}
	}
	return out
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
