package engine

import (
	"context"

	"keywatch/internal/engine/command"
	"keywatch/internal/menu"
	"keywatch/internal/presence/models"
	dErrors "keywatch/pkg/domain-errors"
)

// Result is the outcome of Execute. Exactly one of the typed fields is set
// for the command that ran; Menu is set when a selector is configured and the
// member is registered.
type Result struct {
	Type     command.Type    `json:"type"`
	Member   *models.Member  `json:"member,omitempty"`
	Presence *PresenceResult `json:"presence,omitempty"`
	Answer   *AnswerResult   `json:"answer,omitempty"`
	Key      *KeyQueryResult `json:"key,omitempty"`
	Status   *Status         `json:"status,omitempty"`
	Roster   string          `json:"roster,omitempty"`
	Menu     *menu.Variant   `json:"menu,omitempty"`
}

// Execute runs one decoded command.
func (e *Engine) Execute(ctx context.Context, cmd command.Command) (Result, error) {
	res := Result{Type: cmd.Type()}

	switch c := cmd.(type) {
	case command.Register:
		m, _ := e.Register(ctx, c.MemberID, c.DisplayName)
		res.Member = &m
	case command.ReportPresence:
		p, err := e.OnPresenceReport(ctx, c.MemberID, c.DisplayName, c.Location)
		if err != nil {
			return res, err
		}
		res.Presence = &p
	case command.VacateRoom:
		p, err := e.OnRoomVacated(ctx, c.MemberID, c.Location)
		if err != nil {
			return res, err
		}
		res.Presence = &p
	case command.ReturnKey:
		p, err := e.OnKeyReturned(ctx, c.MemberID, c.Key)
		if err != nil {
			return res, err
		}
		res.Presence = &p
	case command.AnswerConfirmation:
		a, err := e.OnConfirmationAnswer(ctx, c.MemberID, c.Key, c.Yes, c.ConfirmationID)
		if err != nil {
			return res, err
		}
		res.Answer = &a
	case command.QueryKey:
		q, err := e.OnKeyStatusQuery(ctx, c.MemberID, c.Key)
		if err != nil {
			return res, err
		}
		res.Key = &q
	case command.SetNotifications:
		if err := e.SetNotifications(ctx, c.MemberID, c.Enabled); err != nil {
			return res, err
		}
	case command.QueryStatus:
		st := e.QueryStatus(ctx)
		res.Status = &st
	case command.ShowRoster:
		res.Roster = e.Roster(ctx)
	default:
		return res, dErrors.New(dErrors.CodeBadRequest, "unsupported command: "+string(cmd.Type()))
	}

	if e.menus != nil {
		if v, err := e.Menu(ctx, cmd.Member()); err == nil {
			res.Menu = &v
		} else if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			e.logger.WarnContext(ctx, "menu selection failed", "member_id", cmd.Member().String(), "error", err)
		}
	}
	return res, nil
}
