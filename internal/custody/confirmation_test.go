package custody

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "keywatch/pkg/domain"
)

func TestAnswer(t *testing.T) {
	t.Run("yes returns the key", func(t *testing.T) {
		k := ambiguousKey(t, "U1")
		res := k.Answer("U1", id.ConfirmationID{}, true, now)
		assert.Equal(t, AnswerApplied, res.Outcome)
		assert.True(t, res.Changed)
		assert.Equal(t, id.CustodyReturned, res.Custody)
		assert.NotNil(t, res.Resolved)
		assert.Nil(t, k.Pending())
	})

	t.Run("no keeps the key ambiguous and clears the prompt", func(t *testing.T) {
		k := ambiguousKey(t, "U1")
		res := k.Answer("U1", id.ConfirmationID{}, false, now)
		assert.Equal(t, AnswerApplied, res.Outcome)
		assert.False(t, res.Changed)
		assert.Equal(t, id.CustodyAmbiguous, res.Custody)
		assert.Nil(t, k.Pending())
	})

	t.Run("matching confirmation id is accepted", func(t *testing.T) {
		k := ambiguousKey(t, "U1")
		res := k.Answer("U1", k.Pending().ID, true, now)
		assert.Equal(t, AnswerApplied, res.Outcome)
	})

	t.Run("superseded confirmation id is stale", func(t *testing.T) {
		k := ambiguousKey(t, "U1")
		old := k.Pending().ID
		_, ok := k.Offer("U1", now)
		require.True(t, ok)

		res := k.Answer("U1", old, true, now)
		assert.Equal(t, AnswerStale, res.Outcome)
		assert.Equal(t, id.CustodyAmbiguous, k.Custody())
		assert.NotNil(t, k.Pending())
	})

	t.Run("answer from someone else is stale", func(t *testing.T) {
		k := ambiguousKey(t, "U1")
		res := k.Answer("U2", id.ConfirmationID{}, true, now)
		assert.Equal(t, AnswerStale, res.Outcome)
		assert.False(t, res.Changed)
	})

	t.Run("answer after re-entry is a no-op", func(t *testing.T) {
		k := ambiguousKey(t, "U1")
		k.Reconcile(true, "", now)

		res := k.Answer("U1", id.ConfirmationID{}, true, now)
		assert.Equal(t, AnswerNoPending, res.Outcome)
		assert.Equal(t, id.CustodyHeld, k.Custody())
	})

	t.Run("answer with nothing pending reports no change", func(t *testing.T) {
		k := NewKey(id.KeyExpRoom)
		res := k.Answer("U1", id.ConfirmationID{}, true, now)
		assert.Equal(t, AnswerNoPending, res.Outcome)
		assert.False(t, res.Changed)
		assert.Equal(t, id.CustodyReturned, res.Custody)
	})
}

func TestOffer(t *testing.T) {
	t.Run("only ambiguous keys are offered", func(t *testing.T) {
		_, ok := NewKey(id.KeyLab).Offer("U1", now)
		assert.False(t, ok)
		_, ok = heldKey(t).Offer("U1", now)
		assert.False(t, ok)
	})

	t.Run("offer after no lets the asker confirm", func(t *testing.T) {
		k := ambiguousKey(t, "U1")
		k.Answer("U1", id.ConfirmationID{}, false, now)

		p, ok := k.Offer("U3", now)
		require.True(t, ok)
		assert.Equal(t, id.MemberID("U3"), p.Target)

		res := k.Answer("U3", p.ID, true, now)
		assert.Equal(t, AnswerApplied, res.Outcome)
		assert.Equal(t, id.CustodyReturned, k.Custody())
	})
}

func TestNewPrompt(t *testing.T) {
	k := ambiguousKey(t, "U1")
	p := NewPrompt(*k.Pending())
	assert.Equal(t, k.Pending().ID, p.ConfirmationID)
	assert.Equal(t, id.MemberID("U1"), p.Target)
	assert.Equal(t, []string{"yes", "no"}, p.Options)
	assert.Contains(t, p.Question, "Lab key")
}
