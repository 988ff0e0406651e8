// Package registry holds the member directory: who is registered, where each
// member is, and whether they want broadcasts.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"keywatch/internal/presence/models"
	id "keywatch/pkg/domain"
	dErrors "keywatch/pkg/domain-errors"
	"keywatch/pkg/platform/sentinel"
	"keywatch/pkg/requestcontext"
)

// ErrUnknownMember is returned for location changes on ids that never registered.
var ErrUnknownMember = fmt.Errorf("unknown member: %w", sentinel.ErrNotFound)

// InMemoryRegistry is the process-lifetime member directory. Members are never
// removed; the daily reset only moves them back to Away.
type InMemoryRegistry struct {
	mu      sync.RWMutex
	members map[id.MemberID]*models.Member
	// vacated is the last member to leave each key room.
	vacated map[id.Location]id.MemberID
}

func New() *InMemoryRegistry {
	return &InMemoryRegistry{
		members: make(map[id.MemberID]*models.Member),
		vacated: make(map[id.Location]id.MemberID),
	}
}

// Upsert registers memberID on first sight. Later calls return the stored
// member unchanged; the display name is never overwritten.
func (r *InMemoryRegistry) Upsert(ctx context.Context, memberID id.MemberID, displayName string) (models.Member, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.members[memberID]; ok {
		return *existing, false
	}
	m := models.NewMember(memberID, displayName, requestcontext.Now(ctx))
	r.members[memberID] = m
	return *m, true
}

// SetLocation swaps the member's location and returns the previous one.
func (r *InMemoryRegistry) SetLocation(ctx context.Context, memberID id.MemberID, loc id.Location) (id.Location, error) {
	if !loc.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid location")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.members[memberID]
	if !ok {
		return "", dErrors.Wrap(ErrUnknownMember, dErrors.CodeNotFound, "member must register first")
	}
	prev := m.Location
	if prev != loc {
		m.Location = loc
		m.UpdatedAt = requestcontext.Now(ctx)
		r.recordVacated(prev, memberID)
	}
	return prev, nil
}

// LastVacated returns the member who most recently left room, or "" when
// nobody has since the last reset.
func (r *InMemoryRegistry) LastVacated(_ context.Context, room id.Location) id.MemberID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.vacated[room]
}

func (r *InMemoryRegistry) recordVacated(room id.Location, memberID id.MemberID) {
	if _, ok := id.KeyForRoom(room); ok {
		r.vacated[room] = memberID
	}
}

// SetNotify toggles whether the member receives broadcasts.
func (r *InMemoryRegistry) SetNotify(ctx context.Context, memberID id.MemberID, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.members[memberID]
	if !ok {
		return dErrors.Wrap(ErrUnknownMember, dErrors.CodeNotFound, "member must register first")
	}
	m.Notify = enabled
	m.UpdatedAt = requestcontext.Now(ctx)
	return nil
}

// Get returns a copy of a single member.
func (r *InMemoryRegistry) Get(_ context.Context, memberID id.MemberID) (models.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.members[memberID]
	if !ok {
		return models.Member{}, dErrors.Wrap(ErrUnknownMember, dErrors.CodeNotFound, "member not found")
	}
	return *m, nil
}

// All returns a snapshot of every member ordered by id.
func (r *InMemoryRegistry) All(_ context.Context) []models.Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Member, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// EvictLocation moves everyone at from to the next location outward and
// returns who moved. reportedBy is recorded as the room's last leaver.
func (r *InMemoryRegistry) EvictLocation(ctx context.Context, from id.Location, reportedBy id.MemberID) []id.MemberID {
	to := from.Outward()
	if from == to {
		return nil
	}
	now := requestcontext.Now(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	var moved []id.MemberID
	for _, m := range r.members {
		if m.Location == from {
			m.Location = to
			m.UpdatedAt = now
			moved = append(moved, m.ID)
		}
	}
	if len(moved) > 0 {
		r.recordVacated(from, reportedBy)
	}
	sort.Slice(moved, func(i, j int) bool { return moved[i] < moved[j] })
	return moved
}

// ResetAllToAway sets every member's location to Away.
func (r *InMemoryRegistry) ResetAllToAway(ctx context.Context) int {
	now := requestcontext.Now(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.members {
		if m.Location != id.LocationAway {
			m.Location = id.LocationAway
			m.UpdatedAt = now
		}
	}
	clear(r.vacated)
	return len(r.members)
}
