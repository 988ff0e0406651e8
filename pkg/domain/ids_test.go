package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "keywatch/pkg/domain-errors"
)

func TestParseMemberID(t *testing.T) {
	t.Run("rejects blank input", func(t *testing.T) {
		_, err := ParseMemberID("   ")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		id, err := ParseMemberID("  U123 ")
		require.NoError(t, err)
		assert.Equal(t, MemberID("U123"), id)
	})
}

func TestParseConfirmationID(t *testing.T) {
	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseConfirmationID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseConfirmationID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("round-trips a generated id", func(t *testing.T) {
		id := NewConfirmationID()
		parsed, err := ParseConfirmationID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
		assert.False(t, parsed.IsNil())
	})
}

func TestLocationAndKeys(t *testing.T) {
	for _, loc := range Locations {
		parsed, err := ParseLocation(loc.String())
		require.NoError(t, err)
		assert.Equal(t, loc, parsed)
	}
	_, err := ParseLocation("roof")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	assert.Equal(t, LocationOnCampus, LocationLab.Outward())
	assert.Equal(t, LocationOnCampus, LocationExpRoom.Outward())
	assert.Equal(t, LocationAway, LocationOnCampus.Outward())
	assert.Equal(t, LocationAway, LocationAway.Outward())
	assert.False(t, LocationAway.IsOnCampus())
	assert.True(t, LocationOnCampus.IsOnCampus())

	for _, k := range Keys {
		key, ok := KeyForRoom(k.Room())
		require.True(t, ok)
		assert.Equal(t, k, key)
	}
	_, ok := KeyForRoom(LocationOnCampus)
	assert.False(t, ok)
}

func TestCustodySymbols(t *testing.T) {
	for _, c := range Custodies {
		parsed, err := ParseCustodySymbol(c.Symbol())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
	held, err := ParseCustodySymbol("〇")
	require.NoError(t, err)
	assert.Equal(t, CustodyHeld, held)
}

func TestMessageID_JSONUsesCanonicalForm(t *testing.T) {
	msgID := NewMessageID()
	b, err := json.Marshal(msgID)
	require.NoError(t, err)
	assert.JSONEq(t, `"`+msgID.String()+`"`, string(b))

	var decoded MessageID
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, msgID, decoded)
}
