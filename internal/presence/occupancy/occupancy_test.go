package occupancy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"keywatch/internal/presence/models"
	id "keywatch/pkg/domain"
)

func member(mid string, loc id.Location) models.Member {
	return models.Member{ID: id.MemberID(mid), Location: loc}
}

func TestOccupied(t *testing.T) {
	tests := []struct {
		name    string
		members []models.Member
		room    id.Location
		want    bool
	}{
		{"empty registry", nil, id.LocationLab, false},
		{"someone in lab", []models.Member{member("a", id.LocationLab)}, id.LocationLab, true},
		{"someone in other room", []models.Member{member("a", id.LocationExpRoom)}, id.LocationLab, false},
		{"on campus never occupies", []models.Member{member("a", id.LocationOnCampus)}, id.LocationOnCampus, false},
		{"away never occupies", []models.Member{member("a", id.LocationAway)}, id.LocationAway, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Occupied(tt.members, tt.room))
		})
	}
}

func TestSnapshot(t *testing.T) {
	o := Snapshot([]models.Member{
		member("a", id.LocationExpRoom),
		member("b", id.LocationAway),
	})
	assert.False(t, o.Lab)
	assert.True(t, o.ExpRoom)
	assert.True(t, o.OnCampus, "a room counts as on campus")
	assert.True(t, o.ForKey(id.KeyExpRoom))
	assert.False(t, o.ForKey(id.KeyLab))

	assert.Equal(t, Occupancy{}, Snapshot([]models.Member{member("b", id.LocationAway)}))
}
