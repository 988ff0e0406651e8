package domain

import dErrors "keywatch/pkg/domain-errors"

// Location is where a member currently is. Closed enum; exactly one per member.
//
// Usage: construct via ParseLocation at trust boundaries; direct casting
// bypasses validation.
type Location string

const (
	LocationLab      Location = "lab"
	LocationExpRoom  Location = "exp_room"
	LocationOnCampus Location = "on_campus"
	LocationAway     Location = "away"
)

// Locations lists every location in display order.
var Locations = []Location{LocationLab, LocationExpRoom, LocationOnCampus, LocationAway}

// ParseLocation constructs a Location from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseLocation(s string) (Location, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "location cannot be empty")
	}
	l := Location(s)
	if !l.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid location: must be one of lab, exp_room, on_campus, away")
	}
	return l, nil
}

// IsValid checks if the location is one of the supported enum values.
func (l Location) IsValid() bool {
	switch l {
	case LocationLab, LocationExpRoom, LocationOnCampus, LocationAway:
		return true
	}
	return false
}

// IsOnCampus reports whether the member is anywhere on campus.
func (l Location) IsOnCampus() bool {
	return l.IsValid() && l != LocationAway
}

// Outward returns the location one step further out: a room empties onto
// campus, campus empties to away. Away has nowhere further to go.
func (l Location) Outward() Location {
	switch l {
	case LocationLab, LocationExpRoom:
		return LocationOnCampus
	default:
		return LocationAway
	}
}

func (l Location) String() string {
	return string(l)
}
