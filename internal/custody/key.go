// Package custody implements the per-key tri-state custody machine and its
// confirmation flow.
//
// A Key is not safe for concurrent use on its own; Table serialises access per
// key so a read-recompute-write on one key never interleaves with another
// writer of the same key.
package custody

import (
	"time"

	id "keywatch/pkg/domain"
)

// PendingConfirmation is the single outstanding yes/no question for a key.
type PendingConfirmation struct {
	ID       id.ConfirmationID `json:"id"`
	Key      id.KeyID          `json:"key"`
	Target   id.MemberID       `json:"target"`
	IssuedAt time.Time         `json:"issued_at"`
}

// Transition describes the effect of one reconcile, answer, or reset.
type Transition struct {
	Key  id.KeyID   `json:"key"`
	From id.Custody `json:"from"`
	To   id.Custody `json:"to"`
	// Issued is set when this step created a confirmation.
	Issued *PendingConfirmation `json:"issued,omitempty"`
	// Discarded is set when this step dropped an unanswered confirmation.
	Discarded *PendingConfirmation `json:"discarded,omitempty"`
}

// Changed reports whether the custody value moved.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// State is a read-only copy of a key.
type State struct {
	Key       id.KeyID             `json:"key"`
	Custody   id.Custody           `json:"custody"`
	Pending   *PendingConfirmation `json:"pending,omitempty"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Key holds one physical key's custody and its pending confirmation.
// Invariant: pending != nil only while custody is ambiguous.
type Key struct {
	id        id.KeyID
	custody   id.Custody
	pending   *PendingConfirmation
	updatedAt time.Time
}

// NewKey starts a key as returned with nothing pending.
func NewKey(keyID id.KeyID) *Key {
	return &Key{id: keyID, custody: id.CustodyReturned}
}

func (k *Key) ID() id.KeyID {
	return k.id
}

func (k *Key) Custody() id.Custody {
	return k.custody
}

// Pending returns a copy of the outstanding confirmation, if any.
func (k *Key) Pending() *PendingConfirmation {
	if k.pending == nil {
		return nil
	}
	p := *k.pending
	return &p
}

func (k *Key) Snapshot() State {
	return State{Key: k.id, Custody: k.custody, Pending: k.Pending(), UpdatedAt: k.updatedAt}
}

// Reconcile applies the occupancy of the key's room. Rules, first match wins:
//  1. room occupied: held, any pending confirmation is discarded
//  2. was held: ambiguous, and when vacatedBy is known a confirmation targets them
//  3. otherwise unchanged; ambiguous never decays to returned on its own
func (k *Key) Reconcile(occupied bool, vacatedBy id.MemberID, now time.Time) Transition {
	t := Transition{Key: k.id, From: k.custody}

	switch {
	case occupied:
		if k.pending != nil {
			t.Discarded = k.pending
			k.pending = nil
		}
		k.setCustody(id.CustodyHeld, now)
	case k.custody == id.CustodyHeld:
		k.setCustody(id.CustodyAmbiguous, now)
		if vacatedBy != "" {
			p := k.Issue(vacatedBy, now)
			t.Issued = &p
		}
	}

	t.To = k.custody
	return t
}

// Reset forces the key to returned and drops any pending confirmation.
func (k *Key) Reset(now time.Time) Transition {
	t := Transition{Key: k.id, From: k.custody, Discarded: k.pending}
	k.pending = nil
	k.setCustody(id.CustodyReturned, now)
	t.To = k.custody
	return t
}

func (k *Key) setCustody(c id.Custody, now time.Time) {
	if k.custody != c {
		k.custody = c
		k.updatedAt = now
	}
}

// Issue records a confirmation for target, superseding any earlier one.
func (k *Key) Issue(target id.MemberID, now time.Time) PendingConfirmation {
	p := PendingConfirmation{
		ID:       id.NewConfirmationID(),
		Key:      k.id,
		Target:   target,
		IssuedAt: now,
	}
	k.pending = &p
	return p
}
