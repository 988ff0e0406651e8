package command

import (
	"strings"

	id "keywatch/pkg/domain"
	dErrors "keywatch/pkg/domain-errors"
)

// Envelope is the JSON form of a command. Either Type or Postback is set.
type Envelope struct {
	Type           Type   `json:"type,omitempty"`
	MemberID       string `json:"member_id"`
	DisplayName    string `json:"display_name,omitempty"`
	Location       string `json:"location,omitempty"`
	Key            string `json:"key,omitempty"`
	Answer         string `json:"answer,omitempty"`
	ConfirmationID string `json:"confirmation_id,omitempty"`
	Enabled        *bool  `json:"enabled,omitempty"`
	Postback       string `json:"postback,omitempty"`
}

// Decode validates an envelope and returns the command it describes.
func Decode(env Envelope) (Command, error) {
	member, err := id.ParseMemberID(env.MemberID)
	if err != nil {
		return nil, err
	}
	if env.Postback != "" {
		return DecodePostback(member, env.Postback)
	}

	switch env.Type {
	case TypeRegister:
		return Register{MemberID: member, DisplayName: strings.TrimSpace(env.DisplayName)}, nil
	case TypeReportPresence:
		loc, err := id.ParseLocation(env.Location)
		if err != nil {
			return nil, err
		}
		return ReportPresence{MemberID: member, DisplayName: strings.TrimSpace(env.DisplayName), Location: loc}, nil
	case TypeVacateRoom:
		loc, err := id.ParseLocation(env.Location)
		if err != nil {
			return nil, err
		}
		return VacateRoom{MemberID: member, Location: loc}, nil
	case TypeAnswerConfirmation:
		key, err := id.ParseKeyID(env.Key)
		if err != nil {
			return nil, err
		}
		yes, err := ParseAnswer(env.Answer)
		if err != nil {
			return nil, err
		}
		cmd := AnswerConfirmation{MemberID: member, Key: key, Yes: yes}
		if env.ConfirmationID != "" {
			if cmd.ConfirmationID, err = id.ParseConfirmationID(env.ConfirmationID); err != nil {
				return nil, err
			}
		}
		return cmd, nil
	case TypeQueryKey, TypeReturnKey:
		key, err := id.ParseKeyID(env.Key)
		if err != nil {
			return nil, err
		}
		if env.Type == TypeQueryKey {
			return QueryKey{MemberID: member, Key: key}, nil
		}
		return ReturnKey{MemberID: member, Key: key}, nil
	case TypeSetNotifications:
		if env.Enabled == nil {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "enabled is required")
		}
		return SetNotifications{MemberID: member, Enabled: *env.Enabled}, nil
	case TypeQueryStatus:
		return QueryStatus{MemberID: member}, nil
	case TypeShowRoster:
		return ShowRoster{MemberID: member}, nil
	case "":
		return nil, dErrors.New(dErrors.CodeBadRequest, "command type or postback is required")
	}
	return nil, dErrors.New(dErrors.CodeBadRequest, "unknown command type: "+string(env.Type))
}

// ParseAnswer accepts yes/no in a few spellings.
func ParseAnswer(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true":
		return true, nil
	case "no", "n", "false":
		return false, nil
	}
	return false, dErrors.New(dErrors.CodeInvalidInput, "answer must be yes or no")
}

// postback room and location tokens
var postbackLocations = map[string]id.Location{
	"lab": id.LocationLab,
	"exp": id.LocationExpRoom,
	"on":  id.LocationOnCampus,
	"off": id.LocationAway,
}

var postbackKeys = map[string]id.KeyID{
	"lab": id.KeyLab,
	"exp": id.KeyExpRoom,
}

// DecodePostback maps the menu vocabulary onto commands:
//
//	location_<loc>, exist_<loc>    report presence (lab, exp, on, off)
//	noexist_<loc>                  declare the location empty
//	notice_on, notice_off          toggle broadcasts
//	detail                         roster text
//	status                         full status
//	key_<room>_<○|△|×>             in the room / left it / left and returned the key
//	query_<room>                   ask about a key
//	confirm_<room>_<yes|no>[_<id>] answer a confirmation prompt
func DecodePostback(member id.MemberID, data string) (Command, error) {
	data = strings.TrimSpace(data)
	switch data {
	case "detail":
		return ShowRoster{MemberID: member}, nil
	case "status":
		return QueryStatus{MemberID: member}, nil
	case "notice_on":
		return SetNotifications{MemberID: member, Enabled: true}, nil
	case "notice_off":
		return SetNotifications{MemberID: member, Enabled: false}, nil
	}

	verb, rest, _ := strings.Cut(data, "_")
	switch verb {
	case "location", "exist":
		if loc, ok := postbackLocations[rest]; ok {
			return ReportPresence{MemberID: member, Location: loc}, nil
		}
	case "noexist":
		if loc, ok := postbackLocations[rest]; ok {
			return VacateRoom{MemberID: member, Location: loc}, nil
		}
	case "query":
		if key, ok := postbackKeys[rest]; ok {
			return QueryKey{MemberID: member, Key: key}, nil
		}
	case "key":
		room, symbol, _ := strings.Cut(rest, "_")
		key, ok := postbackKeys[room]
		if !ok {
			break
		}
		c, err := id.ParseCustodySymbol(symbol)
		if err != nil {
			return nil, err
		}
		switch c {
		case id.CustodyHeld:
			return ReportPresence{MemberID: member, Location: key.Room()}, nil
		case id.CustodyAmbiguous:
			return VacateRoom{MemberID: member, Location: key.Room()}, nil
		default:
			return ReturnKey{MemberID: member, Key: key}, nil
		}
	case "confirm":
		return decodeConfirm(member, rest)
	}
	return nil, dErrors.New(dErrors.CodeBadRequest, "unknown postback: "+data)
}

func decodeConfirm(member id.MemberID, rest string) (Command, error) {
	parts := strings.SplitN(rest, "_", 3)
	if len(parts) < 2 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "malformed confirm postback")
	}
	key, ok := postbackKeys[parts[0]]
	if !ok {
		return nil, dErrors.New(dErrors.CodeBadRequest, "unknown key in confirm postback: "+parts[0])
	}
	yes, err := ParseAnswer(parts[1])
	if err != nil {
		return nil, err
	}
	cmd := AnswerConfirmation{MemberID: member, Key: key, Yes: yes}
	if len(parts) == 3 {
		if cmd.ConfirmationID, err = id.ParseConfirmationID(parts[2]); err != nil {
			return nil, err
		}
	}
	return cmd, nil
}

// ConfirmPostback renders the postback for a prompt button, the inverse of
// the confirm_ branch of DecodePostback.
func ConfirmPostback(key id.KeyID, yes bool, confirmationID id.ConfirmationID) string {
	room := "lab"
	if key == id.KeyExpRoom {
		room = "exp"
	}
	answer := "no"
	if yes {
		answer = "yes"
	}
	return "confirm_" + room + "_" + answer + "_" + confirmationID.String()
}
