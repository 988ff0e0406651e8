package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"keywatch/internal/custody"
	"keywatch/internal/engine"
	"keywatch/internal/engine/command"
	"keywatch/internal/menu"
	"keywatch/internal/platform/metrics"
	"keywatch/internal/presence/models"
	"keywatch/internal/presence/registry"
	"keywatch/internal/transport/http/mocks"
	id "keywatch/pkg/domain"
	dErrors "keywatch/pkg/domain-errors"
	"keywatch/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/engine-mocks.go -package=mocks EngineService

type HandlerSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	engine *mocks.MockEngineService
	router http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.engine = mocks.NewMockEngineService(s.ctrl)
	reg := prometheus.NewRegistry()
	h := New(s.engine,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(metrics.New(reg), reg),
	)
	s.router = h.Router()
}

func (s *HandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(v))
}

func (s *HandlerSuite) TestRegister() {
	s.engine.EXPECT().
		Register(gomock.Any(), id.MemberID("U1"), "Aoi").
		Return(models.Member{ID: "U1", DisplayName: "Aoi", Location: id.LocationAway, Notify: true}, true)

	w := s.do(http.MethodPost, "/members", `{"id":"U1","display_name":" Aoi "}`)

	s.Equal(http.StatusCreated, w.Code)
	var resp registerResponse
	s.decode(w, &resp)
	s.True(resp.Created)
	s.Equal("Aoi", resp.Member.DisplayName)
}

func (s *HandlerSuite) TestRegister_RejectsBlankID() {
	w := s.do(http.MethodPost, "/members", `{"id":"  "}`)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestPresence() {
	s.engine.EXPECT().
		OnPresenceReport(gomock.Any(), id.MemberID("U1"), "", id.LocationLab).
		DoAndReturn(func(ctx context.Context, _ id.MemberID, _ string, _ id.Location) (engine.PresenceResult, error) {
			s.NotEmpty(requestcontext.RequestID(ctx), "request id reaches the engine")
			return engine.PresenceResult{StateChanges: []id.KeyID{id.KeyLab}}, nil
		})

	w := s.do(http.MethodPost, "/members/U1/presence", `{"location":"lab"}`)

	s.Equal(http.StatusOK, w.Code)
	var resp engine.PresenceResult
	s.decode(w, &resp)
	s.Equal([]id.KeyID{id.KeyLab}, resp.StateChanges)
}

func (s *HandlerSuite) TestPresence_InvalidLocation() {
	w := s.do(http.MethodPost, "/members/U1/presence", `{"location":"roof"}`)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestPresence_UnknownMemberIs404() {
	s.engine.EXPECT().
		OnPresenceReport(gomock.Any(), id.MemberID("ghost"), "", id.LocationAway).
		Return(engine.PresenceResult{}, dErrors.Wrap(registry.ErrUnknownMember, dErrors.CodeNotFound, "member must register first"))

	w := s.do(http.MethodPost, "/members/ghost/presence", `{"location":"away"}`)

	s.Equal(http.StatusNotFound, w.Code)
	var body map[string]string
	s.decode(w, &body)
	s.Equal("not_found", body["error"])
}

func (s *HandlerSuite) TestNotifications() {
	s.engine.EXPECT().SetNotifications(gomock.Any(), id.MemberID("U1"), false).Return(nil)

	w := s.do(http.MethodPost, "/members/U1/notifications", `{"enabled":false}`)
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodPost, "/members/U1/notifications", `{}`)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestVacate() {
	s.engine.EXPECT().
		OnRoomVacated(gomock.Any(), id.MemberID("U1"), id.LocationExpRoom).
		Return(engine.PresenceResult{}, nil)

	w := s.do(http.MethodPost, "/members/U1/vacate", `{"location":"exp_room"}`)
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerSuite) TestConfirmation() {
	cid := id.NewConfirmationID()
	s.engine.EXPECT().
		OnConfirmationAnswer(gomock.Any(), id.MemberID("U1"), id.KeyLab, true, cid).
		Return(engine.AnswerResult{Key: id.KeyLab, StateChange: true, Custody: id.CustodyReturned, Outcome: custody.AnswerApplied}, nil)

	w := s.do(http.MethodPost, "/keys/lab/confirmation", `{"member_id":"U1","answer":"yes","confirmation_id":"`+cid.String()+`"}`)

	s.Equal(http.StatusOK, w.Code)
	var resp engine.AnswerResult
	s.decode(w, &resp)
	s.Equal(custody.AnswerApplied, resp.Outcome)
	s.Equal(id.CustodyReturned, resp.Custody)
}

func (s *HandlerSuite) TestConfirmation_RejectsBadInput() {
	cases := map[string]struct{ path, body string }{
		"unknown key":    {"/keys/vault/confirmation", `{"member_id":"U1","answer":"yes"}`},
		"bad answer":     {"/keys/lab/confirmation", `{"member_id":"U1","answer":"maybe"}`},
		"bad id":         {"/keys/lab/confirmation", `{"member_id":"U1","answer":"no","confirmation_id":"x"}`},
		"missing member": {"/keys/lab/confirmation", `{"answer":"no"}`},
		"unknown field":  {"/keys/lab/confirmation", `{"member_id":"U1","answer":"no","extra":1}`},
		"malformed body": {"/keys/lab/confirmation", `{`},
	}
	for name, tc := range cases {
		s.Run(name, func() {
			w := s.do(http.MethodPost, tc.path, tc.body)
			s.Equal(http.StatusBadRequest, w.Code)
		})
	}
}

func (s *HandlerSuite) TestKeyQuery() {
	p := custody.PendingConfirmation{ID: id.NewConfirmationID(), Key: id.KeyExpRoom, Target: "U2"}
	s.engine.EXPECT().
		OnKeyStatusQuery(gomock.Any(), id.MemberID("U2"), id.KeyExpRoom).
		Return(engine.KeyQueryResult{State: custody.State{Key: id.KeyExpRoom, Custody: id.CustodyAmbiguous, Pending: &p}, Offered: &p}, nil)

	w := s.do(http.MethodPost, "/keys/exp_room/query", `{"member_id":"U2"}`)

	s.Equal(http.StatusOK, w.Code)
	var resp engine.KeyQueryResult
	s.decode(w, &resp)
	s.Require().NotNil(resp.Offered)
	s.Equal(p.ID, resp.Offered.ID)
}

func (s *HandlerSuite) TestCommand_Postback() {
	s.engine.EXPECT().
		Execute(gomock.Any(), command.ReportPresence{MemberID: "U1", Location: id.LocationExpRoom}).
		Return(engine.Result{Type: command.TypeReportPresence, Menu: &menu.Variant{ID: "menu_x"}}, nil)

	w := s.do(http.MethodPost, "/commands", `{"member_id":"U1","postback":"exist_exp"}`)

	s.Equal(http.StatusOK, w.Code)
	var resp engine.Result
	s.decode(w, &resp)
	s.Equal(command.TypeReportPresence, resp.Type)
	s.Equal("menu_x", resp.Menu.ID)
}

func (s *HandlerSuite) TestCommand_Envelope() {
	s.engine.EXPECT().
		Execute(gomock.Any(), command.AnswerConfirmation{MemberID: "U1", Key: id.KeyLab}).
		Return(engine.Result{Type: command.TypeAnswerConfirmation}, nil)

	w := s.do(http.MethodPost, "/commands", `{"type":"answer_confirmation","member_id":"U1","key":"lab","answer":"no"}`)
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerSuite) TestCommand_UnknownPostback() {
	w := s.do(http.MethodPost, "/commands", `{"member_id":"U1","postback":"dance"}`)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestCommand_EngineError() {
	s.engine.EXPECT().
		Execute(gomock.Any(), gomock.Any()).
		Return(engine.Result{}, dErrors.New(dErrors.CodeNotFound, "member not found"))

	w := s.do(http.MethodPost, "/commands", `{"member_id":"U1","postback":"noexist_lab"}`)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerSuite) TestStatusAndRoster() {
	s.engine.EXPECT().QueryStatus(gomock.Any()).Return(engine.Status{
		Keys: []custody.State{{Key: id.KeyLab, Custody: id.CustodyHeld}},
	})
	s.engine.EXPECT().Roster(gomock.Any()).Return("Lab\n- Aoi")

	w := s.do(http.MethodGet, "/status", "")
	s.Equal(http.StatusOK, w.Code)
	var st engine.Status
	s.decode(w, &st)
	s.Equal(id.CustodyHeld, st.Keys[0].Custody)

	w = s.do(http.MethodGet, "/status/roster", "")
	s.Equal(http.StatusOK, w.Code)
	var roster rosterResponse
	s.decode(w, &roster)
	s.Equal("Lab\n- Aoi", roster.Text)
}

func (s *HandlerSuite) TestMenu() {
	st := menu.State{Location: id.LocationAway, Lab: id.CustodyReturned, ExpRoom: id.CustodyReturned, Notify: true}
	s.engine.EXPECT().MenuState(gomock.Any(), id.MemberID("U1")).Return(st, nil)
	s.engine.EXPECT().Menu(gomock.Any(), id.MemberID("U1")).Return(menu.Variant{ID: "menu_away"}, nil)

	w := s.do(http.MethodGet, "/members/U1/menu", "")

	s.Equal(http.StatusOK, w.Code)
	var resp menuResponse
	s.decode(w, &resp)
	s.Equal(st, resp.State)
	s.Equal("menu_away", resp.Variant.ID)
}

func (s *HandlerSuite) TestReset() {
	s.engine.EXPECT().OnDailyReset(gomock.Any()).Return(engine.ResetResult{Members: 4})

	w := s.do(http.MethodPost, "/admin/reset", "")

	s.Equal(http.StatusOK, w.Code)
	var resp engine.ResetResult
	s.decode(w, &resp)
	s.Equal(4, resp.Members)
}

func (s *HandlerSuite) TestMetricsEndpoint() {
	w := s.do(http.MethodGet, "/metrics", "")
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "keywatch_")
}

func TestHealth(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := New(mocks.NewMockEngineService(ctrl),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithHealthCheck("redis", func(context.Context) error { return errors.New("down") }),
	)

	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
