package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "keywatch/pkg/domain-errors"
)

// MemberID is the opaque messaging-platform identifier of a participant.
// Invariant: non-empty after trimming.
type MemberID string

// ParseMemberID constructs a MemberID from external input.
func ParseMemberID(s string) (MemberID, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "member id cannot be empty")
	}
	return MemberID(trimmed), nil
}

func (id MemberID) String() string {
	return string(id)
}

// ConfirmationID identifies a single issued confirmation prompt.
type ConfirmationID uuid.UUID

// NewConfirmationID returns a random ConfirmationID.
func NewConfirmationID() ConfirmationID {
	return ConfirmationID(uuid.New())
}

// ParseConfirmationID parses a UUID string; the nil UUID is rejected.
func ParseConfirmationID(s string) (ConfirmationID, error) {
	if s == "" {
		return ConfirmationID{}, dErrors.New(dErrors.CodeInvalidInput, "confirmation id cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return ConfirmationID{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid confirmation id")
	}
	if parsed == uuid.Nil {
		return ConfirmationID{}, dErrors.New(dErrors.CodeInvalidInput, "confirmation id cannot be nil")
	}
	return ConfirmationID(parsed), nil
}

func (id ConfirmationID) String() string {
	return uuid.UUID(id).String()
}

func (id ConfirmationID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

// MessageID identifies one notification; the redis outbox uses it, paired with
// the recipient, as the delivery idempotency key.
type MessageID uuid.UUID

func NewMessageID() MessageID {
	return MessageID(uuid.New())
}

func (id MessageID) String() string {
	return uuid.UUID(id).String()
}

func (id MessageID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *MessageID) UnmarshalText(b []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(b); err != nil {
		return err
	}
	*id = MessageID(u)
	return nil
}

func (id ConfirmationID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *ConfirmationID) UnmarshalText(b []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(b); err != nil {
		return err
	}
	*id = ConfirmationID(u)
	return nil
}
