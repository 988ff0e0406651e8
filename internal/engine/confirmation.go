package engine

import (
	"context"

	"keywatch/internal/custody"
	notifymodels "keywatch/internal/notify/models"
	"keywatch/internal/presence/occupancy"
	id "keywatch/pkg/domain"
	dErrors "keywatch/pkg/domain-errors"
	"keywatch/pkg/requestcontext"
)

// AnswerResult is what a confirmation answer did. Stale and no-pending
// answers are not errors; they change nothing.
type AnswerResult struct {
	Key           id.KeyID               `json:"key"`
	StateChange   bool                   `json:"state_change"`
	Custody       id.Custody             `json:"custody"`
	Outcome       custody.AnswerOutcome  `json:"outcome"`
	Notifications []notifymodels.Message `json:"notifications"`
}

// KeyQueryResult is the state of one key and, when the key was ambiguous,
// the confirmation offered to the asker.
type KeyQueryResult struct {
	State         custody.State                `json:"state"`
	Offered       *custody.PendingConfirmation `json:"offered,omitempty"`
	Notifications []notifymodels.Message       `json:"notifications"`
}

// OnConfirmationAnswer resolves the key's pending confirmation. yes returns
// the key and is broadcast; no leaves it ambiguous and notifies nobody.
func (e *Engine) OnConfirmationAnswer(ctx context.Context, memberID id.MemberID, keyID id.KeyID, yes bool, confirmationID id.ConfirmationID) (AnswerResult, error) {
	if _, err := e.registry.Get(ctx, memberID); err != nil {
		return AnswerResult{}, err
	}
	now := requestcontext.Now(ctx)

	var (
		ans   custody.AnswerResult
		from  id.Custody
		recip []id.MemberID
	)
	ok := e.keys.WithKey(keyID, func(k *custody.Key) {
		from = k.Custody()
		ans = k.Answer(memberID, confirmationID, yes, now)
		if ans.Changed {
			e.recordTransition(ctx, custody.Transition{Key: keyID, From: from, To: ans.Custody})
			recip = e.subscribers(ctx)
		}
	})
	if !ok {
		return AnswerResult{}, dErrors.New(dErrors.CodeInvalidInput, "unknown key: "+keyID.String())
	}

	e.metrics.IncrementConfirmationAnswers(keyID.String(), string(ans.Outcome))
	e.logger.InfoContext(ctx, "confirmation answered",
		"key", keyID.String(),
		"member_id", memberID.String(),
		"yes", yes,
		"outcome", ans.Outcome,
		"request_id", requestcontext.RequestID(ctx),
	)

	res := AnswerResult{Key: keyID, StateChange: ans.Changed, Custody: ans.Custody, Outcome: ans.Outcome}
	if ans.Changed {
		t := custody.Transition{Key: keyID, From: from, To: ans.Custody}
		res.Notifications = []notifymodels.Message{notifymodels.NewCustodyChanged(t, recip, now)}
	}
	e.publish(ctx, res.Notifications)
	return res, nil
}

// OnKeyStatusQuery reports a key's state. An ambiguous key is offered to the
// asker with a fresh confirmation, superseding any earlier one; this is how a
// key nobody was prompted for, or whose holder answered no, gets resolved.
func (e *Engine) OnKeyStatusQuery(ctx context.Context, memberID id.MemberID, keyID id.KeyID) (KeyQueryResult, error) {
	if _, err := e.registry.Get(ctx, memberID); err != nil {
		return KeyQueryResult{}, err
	}
	now := requestcontext.Now(ctx)

	var res KeyQueryResult
	ok := e.keys.WithKey(keyID, func(k *custody.Key) {
		if p, offered := k.Offer(memberID, now); offered {
			res.Offered = &p
			e.recordTransition(ctx, custody.Transition{Key: keyID, From: k.Custody(), To: k.Custody(), Issued: &p})
			res.Notifications = append(res.Notifications, notifymodels.NewConfirmationPrompt(p, now))
		}
		res.State = k.Snapshot()
	})
	if !ok {
		return KeyQueryResult{}, dErrors.New(dErrors.CodeInvalidInput, "unknown key: "+keyID.String())
	}

	e.publish(ctx, res.Notifications)
	return res, nil
}

// OnKeyReturned is a member saying they left the key's room and returned the
// key. The room is vacated if the member was in it; if the key is then
// ambiguous it is resolved as an explicit yes from the member.
func (e *Engine) OnKeyReturned(ctx context.Context, memberID id.MemberID, keyID id.KeyID) (PresenceResult, error) {
	if !keyID.IsValid() {
		return PresenceResult{}, dErrors.New(dErrors.CodeInvalidInput, "unknown key: "+keyID.String())
	}
	res, err := e.vacate(ctx, memberID, keyID.Room())
	if err != nil {
		return res, err
	}
	now := requestcontext.Now(ctx)

	var returned []notifymodels.Message
	e.keys.WithKey(keyID, func(k *custody.Key) {
		members := e.registry.All(ctx)
		if occupancy.Occupied(members, keyID.Room()) {
			return
		}
		from := k.Custody()
		p, ok := k.Offer(memberID, now)
		if !ok {
			return
		}
		ans := k.Answer(memberID, p.ID, true, now)
		t := custody.Transition{Key: keyID, From: from, To: ans.Custody}
		e.recordTransition(ctx, t)
		e.metrics.IncrementConfirmationAnswers(keyID.String(), string(ans.Outcome))
		res.Transitions = append(res.Transitions, t)
		res.StateChanges = append(res.StateChanges, keyID)
		returned = append(returned, notifymodels.NewCustodyChanged(t, subscribersOf(members), now))
	})

	if len(returned) > 0 {
		// The member already answered for this key; drop the prompt the
		// vacate step would have sent them.
		kept := res.Notifications[:0]
		for _, msg := range res.Notifications {
			if msg.Kind == notifymodels.KindConfirmationPrompt && msg.Key == keyID {
				continue
			}
			kept = append(kept, msg)
		}
		res.Notifications = append(kept, returned...)
	}
	e.publish(ctx, res.Notifications)
	return res, nil
}
