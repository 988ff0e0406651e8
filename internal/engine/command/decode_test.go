package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "keywatch/pkg/domain"
	dErrors "keywatch/pkg/domain-errors"
)

func TestDecodePostback(t *testing.T) {
	const m = id.MemberID("U1")
	cases := []struct {
		data string
		want Command
	}{
		{"location_lab", ReportPresence{MemberID: m, Location: id.LocationLab}},
		{"location_exp", ReportPresence{MemberID: m, Location: id.LocationExpRoom}},
		{"location_on", ReportPresence{MemberID: m, Location: id.LocationOnCampus}},
		{"location_off", ReportPresence{MemberID: m, Location: id.LocationAway}},
		{"exist_exp", ReportPresence{MemberID: m, Location: id.LocationExpRoom}},
		{"noexist_lab", VacateRoom{MemberID: m, Location: id.LocationLab}},
		{"noexist_on", VacateRoom{MemberID: m, Location: id.LocationOnCampus}},
		{"notice_on", SetNotifications{MemberID: m, Enabled: true}},
		{"notice_off", SetNotifications{MemberID: m, Enabled: false}},
		{"detail", ShowRoster{MemberID: m}},
		{"status", QueryStatus{MemberID: m}},
		{"key_lab_〇", ReportPresence{MemberID: m, Location: id.LocationLab}},
		{"key_lab_○", ReportPresence{MemberID: m, Location: id.LocationLab}},
		{"key_exp_△", VacateRoom{MemberID: m, Location: id.LocationExpRoom}},
		{"key_exp_×", ReturnKey{MemberID: m, Key: id.KeyExpRoom}},
		{"query_lab", QueryKey{MemberID: m, Key: id.KeyLab}},
		{"confirm_lab_yes", AnswerConfirmation{MemberID: m, Key: id.KeyLab, Yes: true}},
		{"confirm_exp_no", AnswerConfirmation{MemberID: m, Key: id.KeyExpRoom}},
	}
	for _, tc := range cases {
		t.Run(tc.data, func(t *testing.T) {
			got, err := DecodePostback(m, tc.data)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodePostback_Rejects(t *testing.T) {
	for _, data := range []string{"", "location_roof", "key_lab_?", "key_attic_○", "confirm_lab", "confirm_lab_maybe", "confirm_lab_yes_not-a-uuid", "dance"} {
		t.Run(data, func(t *testing.T) {
			_, err := DecodePostback("U1", data)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest) || dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}
}

func TestConfirmPostbackRoundTrip(t *testing.T) {
	cid := id.NewConfirmationID()
	data := ConfirmPostback(id.KeyExpRoom, true, cid)

	got, err := DecodePostback("U1", data)
	require.NoError(t, err)
	assert.Equal(t, AnswerConfirmation{MemberID: "U1", Key: id.KeyExpRoom, Yes: true, ConfirmationID: cid}, got)
}

func TestDecode(t *testing.T) {
	enabled := false
	cid := id.NewConfirmationID()
	cases := []struct {
		name string
		env  Envelope
		want Command
	}{
		{"register", Envelope{Type: TypeRegister, MemberID: "U1", DisplayName: " Aoi "}, Register{MemberID: "U1", DisplayName: "Aoi"}},
		{"presence", Envelope{Type: TypeReportPresence, MemberID: "U1", Location: "exp_room"}, ReportPresence{MemberID: "U1", Location: id.LocationExpRoom}},
		{"vacate", Envelope{Type: TypeVacateRoom, MemberID: "U1", Location: "lab"}, VacateRoom{MemberID: "U1", Location: id.LocationLab}},
		{"answer", Envelope{Type: TypeAnswerConfirmation, MemberID: "U1", Key: "lab", Answer: "Yes", ConfirmationID: cid.String()}, AnswerConfirmation{MemberID: "U1", Key: id.KeyLab, Yes: true, ConfirmationID: cid}},
		{"query key", Envelope{Type: TypeQueryKey, MemberID: "U1", Key: "exp_room"}, QueryKey{MemberID: "U1", Key: id.KeyExpRoom}},
		{"return key", Envelope{Type: TypeReturnKey, MemberID: "U1", Key: "lab"}, ReturnKey{MemberID: "U1", Key: id.KeyLab}},
		{"notifications", Envelope{Type: TypeSetNotifications, MemberID: "U1", Enabled: &enabled}, SetNotifications{MemberID: "U1"}},
		{"status", Envelope{Type: TypeQueryStatus, MemberID: "U1"}, QueryStatus{MemberID: "U1"}},
		{"roster", Envelope{Type: TypeShowRoster, MemberID: "U1"}, ShowRoster{MemberID: "U1"}},
		{"postback wins", Envelope{Type: TypeShowRoster, MemberID: "U1", Postback: "location_lab"}, ReportPresence{MemberID: "U1", Location: id.LocationLab}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode(tc.env)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want.Type(), got.Type())
			assert.Equal(t, id.MemberID("U1"), got.Member())
		})
	}
}

func TestDecode_Rejects(t *testing.T) {
	cases := map[string]Envelope{
		"missing member":       {Type: TypeQueryStatus},
		"missing type":         {MemberID: "U1"},
		"unknown type":         {Type: "fly", MemberID: "U1"},
		"bad location":         {Type: TypeReportPresence, MemberID: "U1", Location: "roof"},
		"bad key":              {Type: TypeQueryKey, MemberID: "U1", Key: "vault"},
		"bad answer":           {Type: TypeAnswerConfirmation, MemberID: "U1", Key: "lab", Answer: "perhaps"},
		"missing enabled flag": {Type: TypeSetNotifications, MemberID: "U1"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(env)
			assert.Error(t, err)
		})
	}
}
