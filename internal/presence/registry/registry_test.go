package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "keywatch/pkg/domain"
	dErrors "keywatch/pkg/domain-errors"
	"keywatch/pkg/platform/sentinel"
)

func TestInMemoryRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("upsert creates once and keeps the first name", func(t *testing.T) {
		r := New()
		m, created := r.Upsert(ctx, "U1", "Aiko")
		require.True(t, created)
		assert.Equal(t, "Aiko", m.DisplayName)
		assert.Equal(t, id.LocationAway, m.Location)
		assert.True(t, m.Notify)

		again, created := r.Upsert(ctx, "U1", "Someone Else")
		assert.False(t, created)
		assert.Equal(t, "Aiko", again.DisplayName)
	})

	t.Run("set location returns the previous value", func(t *testing.T) {
		r := New()
		r.Upsert(ctx, "U1", "Aiko")

		prev, err := r.SetLocation(ctx, "U1", id.LocationLab)
		require.NoError(t, err)
		assert.Equal(t, id.LocationAway, prev)

		prev, err = r.SetLocation(ctx, "U1", id.LocationLab)
		require.NoError(t, err)
		assert.Equal(t, id.LocationLab, prev)
	})

	t.Run("unknown member is a not-found error", func(t *testing.T) {
		r := New()
		_, err := r.SetLocation(ctx, "ghost", id.LocationLab)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
		assert.ErrorIs(t, err, ErrUnknownMember)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)

		assert.ErrorIs(t, r.SetNotify(ctx, "ghost", false), ErrUnknownMember)
		_, err = r.Get(ctx, "ghost")
		assert.ErrorIs(t, err, ErrUnknownMember)
	})

	t.Run("all returns copies sorted by id", func(t *testing.T) {
		r := New()
		r.Upsert(ctx, "U2", "Ben")
		r.Upsert(ctx, "U1", "Aiko")

		all := r.All(ctx)
		require.Len(t, all, 2)
		assert.Equal(t, id.MemberID("U1"), all[0].ID)
		all[0].Location = id.LocationLab

		m, err := r.Get(ctx, "U1")
		require.NoError(t, err)
		assert.Equal(t, id.LocationAway, m.Location, "snapshot must not alias registry state")
	})

	t.Run("evict moves a room onto campus and campus to away", func(t *testing.T) {
		r := New()
		for _, mid := range []id.MemberID{"U1", "U2", "U3"} {
			r.Upsert(ctx, mid, "")
		}
		_, _ = r.SetLocation(ctx, "U1", id.LocationLab)
		_, _ = r.SetLocation(ctx, "U2", id.LocationLab)
		_, _ = r.SetLocation(ctx, "U3", id.LocationOnCampus)

		moved := r.EvictLocation(ctx, id.LocationLab, "U2")
		assert.Equal(t, []id.MemberID{"U1", "U2"}, moved)
		assert.Equal(t, id.MemberID("U2"), r.LastVacated(ctx, id.LocationLab))

		moved = r.EvictLocation(ctx, id.LocationOnCampus, "U3")
		assert.ElementsMatch(t, []id.MemberID{"U1", "U2", "U3"}, moved)
		assert.Nil(t, r.EvictLocation(ctx, id.LocationAway, "U1"))
	})

	t.Run("last leaver is tracked per key room", func(t *testing.T) {
		r := New()
		for _, mid := range []id.MemberID{"U1", "U2"} {
			r.Upsert(ctx, mid, "")
		}
		assert.Empty(t, r.LastVacated(ctx, id.LocationLab))

		_, _ = r.SetLocation(ctx, "U1", id.LocationLab)
		_, _ = r.SetLocation(ctx, "U2", id.LocationExpRoom)
		_, _ = r.SetLocation(ctx, "U1", id.LocationExpRoom)
		_, _ = r.SetLocation(ctx, "U2", id.LocationOnCampus)
		_, _ = r.SetLocation(ctx, "U2", id.LocationAway)

		assert.Equal(t, id.MemberID("U1"), r.LastVacated(ctx, id.LocationLab))
		assert.Equal(t, id.MemberID("U2"), r.LastVacated(ctx, id.LocationExpRoom))
		assert.Empty(t, r.LastVacated(ctx, id.LocationOnCampus), "only key rooms are tracked")

		r.ResetAllToAway(ctx)
		assert.Empty(t, r.LastVacated(ctx, id.LocationLab))
		assert.Empty(t, r.LastVacated(ctx, id.LocationExpRoom))
	})

	t.Run("reset moves everyone away and keeps members", func(t *testing.T) {
		r := New()
		r.Upsert(ctx, "U1", "Aiko")
		_, _ = r.SetLocation(ctx, "U1", id.LocationExpRoom)
		require.NoError(t, r.SetNotify(ctx, "U1", false))

		assert.Equal(t, 1, r.ResetAllToAway(ctx))
		m, err := r.Get(ctx, "U1")
		require.NoError(t, err)
		assert.Equal(t, id.LocationAway, m.Location)
		assert.False(t, m.Notify, "reset does not touch notification preference")
	})
}

func TestInMemoryRegistry_Concurrent(t *testing.T) {
	r := New()
	ctx := context.Background()

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			mid := id.MemberID(fmt.Sprintf("U%d", i%10))
			r.Upsert(ctx, mid, "")
			_, err := r.SetLocation(ctx, mid, id.Locations[i%len(id.Locations)])
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, r.All(ctx), 10)
}
