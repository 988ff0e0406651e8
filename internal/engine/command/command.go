// Package command defines the tagged commands the engine executes. Transport
// input (JSON envelopes, platform postback strings) is decoded into a Command
// once at the boundary; nothing past this package compares raw strings.
package command

import (
	id "keywatch/pkg/domain"
)

// Type tags a command variant.
type Type string

const (
	TypeRegister           Type = "register"
	TypeReportPresence     Type = "report_presence"
	TypeVacateRoom         Type = "vacate_room"
	TypeAnswerConfirmation Type = "answer_confirmation"
	TypeQueryKey           Type = "query_key"
	TypeReturnKey          Type = "return_key"
	TypeSetNotifications   Type = "set_notifications"
	TypeQueryStatus        Type = "query_status"
	TypeShowRoster         Type = "show_roster"
)

// Command is one decoded request from a member.
type Command interface {
	Type() Type
	Member() id.MemberID
}

// Register adds the member on first contact; later calls are no-ops.
type Register struct {
	MemberID    id.MemberID
	DisplayName string
}

// ReportPresence moves the member to Location. DisplayName registers the
// member when they are not yet known.
type ReportPresence struct {
	MemberID    id.MemberID
	DisplayName string
	Location    id.Location
}

// VacateRoom declares Location empty. It only acts when the member is there.
type VacateRoom struct {
	MemberID id.MemberID
	Location id.Location
}

// AnswerConfirmation answers the yes/no question for Key. A nil
// ConfirmationID matches whatever is pending for the member.
type AnswerConfirmation struct {
	MemberID       id.MemberID
	Key            id.KeyID
	Yes            bool
	ConfirmationID id.ConfirmationID
}

// QueryKey asks about one key; an ambiguous key is offered to the asker.
type QueryKey struct {
	MemberID id.MemberID
	Key      id.KeyID
}

// ReturnKey is "I left and returned the key": vacate the room, then answer
// yes for the key.
type ReturnKey struct {
	MemberID id.MemberID
	Key      id.KeyID
}

type SetNotifications struct {
	MemberID id.MemberID
	Enabled  bool
}

type QueryStatus struct {
	MemberID id.MemberID
}

type ShowRoster struct {
	MemberID id.MemberID
}

func (Register) Type() Type           { return TypeRegister }
func (ReportPresence) Type() Type     { return TypeReportPresence }
func (VacateRoom) Type() Type         { return TypeVacateRoom }
func (AnswerConfirmation) Type() Type { return TypeAnswerConfirmation }
func (QueryKey) Type() Type           { return TypeQueryKey }
func (ReturnKey) Type() Type          { return TypeReturnKey }
func (SetNotifications) Type() Type   { return TypeSetNotifications }
func (QueryStatus) Type() Type        { return TypeQueryStatus }
func (ShowRoster) Type() Type         { return TypeShowRoster }

func (c Register) Member() id.MemberID           { return c.MemberID }
func (c ReportPresence) Member() id.MemberID     { return c.MemberID }
func (c VacateRoom) Member() id.MemberID         { return c.MemberID }
func (c AnswerConfirmation) Member() id.MemberID { return c.MemberID }
func (c QueryKey) Member() id.MemberID           { return c.MemberID }
func (c ReturnKey) Member() id.MemberID          { return c.MemberID }
func (c SetNotifications) Member() id.MemberID   { return c.MemberID }
func (c QueryStatus) Member() id.MemberID        { return c.MemberID }
func (c ShowRoster) Member() id.MemberID         { return c.MemberID }
