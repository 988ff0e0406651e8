package models

import (
	"fmt"
	"time"

	"keywatch/internal/custody"
	"keywatch/internal/engine/command"
	id "keywatch/pkg/domain"
)

// Kind classifies an outbound message.
type Kind string

const (
	KindCustodyChanged     Kind = "custody_changed"
	KindConfirmationPrompt Kind = "confirmation_prompt"
	KindDailyReset         Kind = "daily_reset"
)

// Message is one notification addressed to a fixed recipient list. The list
// is resolved when the message is created, not when it is delivered.
type Message struct {
	ID         id.MessageID    `json:"id"`
	Kind       Kind            `json:"kind"`
	Key        id.KeyID        `json:"key,omitempty"`
	From       id.Custody      `json:"from,omitempty"`
	To         id.Custody      `json:"to,omitempty"`
	Text       string          `json:"text"`
	Prompt     *custody.Prompt `json:"prompt,omitempty"`
	Actions    []Action        `json:"actions,omitempty"`
	Recipients []id.MemberID   `json:"recipients"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Action is a reply button: a label and the postback it sends back.
type Action struct {
	Label    string `json:"label"`
	Postback string `json:"postback"`
}

// NewCustodyChanged announces a custody transition.
func NewCustodyChanged(t custody.Transition, recipients []id.MemberID, now time.Time) Message {
	return Message{
		ID:         id.NewMessageID(),
		Kind:       KindCustodyChanged,
		Key:        t.Key,
		From:       t.From,
		To:         t.To,
		Text:       custodyText(t.Key, t.To),
		Recipients: recipients,
		CreatedAt:  now,
	}
}

// NewConfirmationPrompt addresses a confirmation to its target only.
func NewConfirmationPrompt(p custody.PendingConfirmation, now time.Time) Message {
	prompt := custody.NewPrompt(p)
	return Message{
		ID:     id.NewMessageID(),
		Kind:   KindConfirmationPrompt,
		Key:    p.Key,
		Text:   prompt.Question,
		Prompt: &prompt,
		Actions: []Action{
			{Label: "Yes", Postback: command.ConfirmPostback(p.Key, true, p.ID)},
			{Label: "No", Postback: command.ConfirmPostback(p.Key, false, p.ID)},
		},
		Recipients: []id.MemberID{p.Target},
		CreatedAt:  now,
	}
}

// NewDailyReset announces the daily reset.
func NewDailyReset(recipients []id.MemberID, now time.Time) Message {
	return Message{
		ID:         id.NewMessageID(),
		Kind:       KindDailyReset,
		Text:       "Daily reset: everyone is marked away and all keys are back.",
		Recipients: recipients,
		CreatedAt:  now,
	}
}

func custodyText(k id.KeyID, to id.Custody) string {
	switch to {
	case id.CustodyHeld:
		return fmt.Sprintf("The %s key has been borrowed.", k.DisplayName())
	case id.CustodyAmbiguous:
		return fmt.Sprintf("Nobody is left in the %s; the key's whereabouts are unconfirmed.", k.DisplayName())
	case id.CustodyReturned:
		return fmt.Sprintf("The %s key has been returned.", k.DisplayName())
	}
	return fmt.Sprintf("The %s key changed state.", k.DisplayName())
}
