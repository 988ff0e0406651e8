package models

import (
	"time"

	id "keywatch/pkg/domain"
)

// Member is a tracked participant. Identity is ID; DisplayName is fixed at
// first registration.
type Member struct {
	ID           id.MemberID `json:"id"`
	DisplayName  string      `json:"display_name"`
	Location     id.Location `json:"location"`
	Notify       bool        `json:"notify"`
	RegisteredAt time.Time   `json:"registered_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// NewMember creates a Member in the Away location with notifications on.
func NewMember(memberID id.MemberID, displayName string, now time.Time) *Member {
	if displayName == "" {
		displayName = memberID.String()
	}
	return &Member{
		ID:           memberID,
		DisplayName:  displayName,
		Location:     id.LocationAway,
		Notify:       true,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
}

// IsIn reports whether the member is currently at loc.
func (m Member) IsIn(loc id.Location) bool {
	return m.Location == loc
}
