package custody

import (
	"fmt"
	"time"

	id "keywatch/pkg/domain"
)

// AnswerOutcome says what an answer did.
type AnswerOutcome string

const (
	// AnswerApplied: the pending confirmation was resolved.
	AnswerApplied AnswerOutcome = "applied"
	// AnswerNoPending: nothing was outstanding for the key.
	AnswerNoPending AnswerOutcome = "no_pending"
	// AnswerStale: the answer refers to a superseded confirmation or comes
	// from someone other than its target.
	AnswerStale AnswerOutcome = "stale"
)

// AnswerResult is the custody after an answer and whether it moved.
type AnswerResult struct {
	Key      id.KeyID
	Custody  id.Custody
	Changed  bool
	Outcome  AnswerOutcome
	Resolved *PendingConfirmation
}

// Prompt is the payload handed to the presentation layer for a confirmation.
type Prompt struct {
	ConfirmationID id.ConfirmationID `json:"confirmation_id"`
	Key            id.KeyID          `json:"key"`
	Target         id.MemberID       `json:"target"`
	Question       string            `json:"question"`
	Options        []string          `json:"options"`
}

// NewPrompt renders the question for a pending confirmation.
func NewPrompt(p PendingConfirmation) Prompt {
	return Prompt{
		ConfirmationID: p.ID,
		Key:            p.Key,
		Target:         p.Target,
		Question:       fmt.Sprintf("Nobody is in the %s any more. Did you return the %s key?", roomLabel(p.Key), p.Key.DisplayName()),
		Options:        []string{"yes", "no"},
	}
}

func roomLabel(k id.KeyID) string {
	if k == id.KeyLab {
		return "lab"
	}
	return "experiment room"
}

// Answer resolves the pending confirmation. A zero confirmationID matches
// whatever is pending for answerer. yes moves the key to returned, no leaves it
// ambiguous; both clear the confirmation and neither re-prompts.
func (k *Key) Answer(answerer id.MemberID, confirmationID id.ConfirmationID, yes bool, now time.Time) AnswerResult {
	res := AnswerResult{Key: k.id, Custody: k.custody}

	if k.pending == nil {
		res.Outcome = AnswerNoPending
		return res
	}
	if k.pending.Target != answerer || (!confirmationID.IsNil() && confirmationID != k.pending.ID) {
		res.Outcome = AnswerStale
		return res
	}

	res.Resolved = k.pending
	k.pending = nil
	if yes {
		k.setCustody(id.CustodyReturned, now)
	}
	res.Outcome = AnswerApplied
	res.Changed = res.Custody != k.custody
	res.Custody = k.custody
	return res
}

// Offer re-issues a confirmation to member when the key is ambiguous. It is how
// a key with no known holder, or one whose holder answered no, gets resolved.
func (k *Key) Offer(member id.MemberID, now time.Time) (PendingConfirmation, bool) {
	if k.custody != id.CustodyAmbiguous {
		return PendingConfirmation{}, false
	}
	return k.Issue(member, now), true
}
