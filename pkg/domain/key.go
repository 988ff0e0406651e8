package domain

import dErrors "keywatch/pkg/domain-errors"

// KeyID names one of the tracked physical keys.
type KeyID string

const (
	KeyLab     KeyID = "lab"
	KeyExpRoom KeyID = "exp_room"
)

// Keys lists the tracked keys in the fixed order used for locking and prompting.
var Keys = []KeyID{KeyLab, KeyExpRoom}

// ParseKeyID constructs a KeyID from external input.
func ParseKeyID(s string) (KeyID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "key cannot be empty")
	}
	k := KeyID(s)
	if !k.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid key: must be lab or exp_room")
	}
	return k, nil
}

func (k KeyID) IsValid() bool {
	return k == KeyLab || k == KeyExpRoom
}

// Room returns the location a key opens.
func (k KeyID) Room() Location {
	switch k {
	case KeyLab:
		return LocationLab
	case KeyExpRoom:
		return LocationExpRoom
	}
	return ""
}

// DisplayName is the human label used in notification text.
func (k KeyID) DisplayName() string {
	switch k {
	case KeyLab:
		return "Lab"
	case KeyExpRoom:
		return "Experiment room"
	}
	return string(k)
}

func (k KeyID) String() string {
	return string(k)
}

// KeyForRoom returns the key opening a location, if any.
func KeyForRoom(l Location) (KeyID, bool) {
	for _, k := range Keys {
		if k.Room() == l {
			return k, true
		}
	}
	return "", false
}

// Custody is the tri-state whereabouts of a key.
type Custody string

const (
	// CustodyHeld: at least one member is inside the key's room.
	CustodyHeld Custody = "held"
	// CustodyAmbiguous: the room emptied and nobody confirmed returning the key.
	CustodyAmbiguous Custody = "ambiguous"
	// CustodyReturned: confirmed not in anyone's possession.
	CustodyReturned Custody = "returned"
)

// Custodies lists every custody value.
var Custodies = []Custody{CustodyHeld, CustodyAmbiguous, CustodyReturned}

func (c Custody) IsValid() bool {
	switch c {
	case CustodyHeld, CustodyAmbiguous, CustodyReturned:
		return true
	}
	return false
}

// Symbol is the compact marker the member-facing menus use.
func (c Custody) Symbol() string {
	switch c {
	case CustodyHeld:
		return "○"
	case CustodyAmbiguous:
		return "△"
	case CustodyReturned:
		return "×"
	}
	return "?"
}

// ParseCustodySymbol maps a menu marker back to a custody value. Both the
// circle and the ideographic circle are accepted.
func ParseCustodySymbol(s string) (Custody, error) {
	switch s {
	case "○", "〇", "o":
		return CustodyHeld, nil
	case "△", "^":
		return CustodyAmbiguous, nil
	case "×", "x":
		return CustodyReturned, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "invalid custody symbol")
}

func (c Custody) String() string {
	return string(c)
}
