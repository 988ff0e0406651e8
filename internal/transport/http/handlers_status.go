package httptransport

import (
	"net/http"

	"keywatch/internal/engine/command"
	"keywatch/pkg/platform/httputil"
	"keywatch/pkg/requestcontext"
)

type rosterResponse struct {
	Text string `json:"text"`
}

// handleCommand accepts a tagged envelope or a raw menu postback.
func (h *Handler) handleCommand(w http.ResponseWriter, r *http.Request) {
	var env command.Envelope
	if err := httputil.DecodeJSON(r, &env); err != nil {
		httputil.WriteError(w, err)
		return
	}
	cmd, err := command.Decode(env)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	res, err := h.engine.Execute(r.Context(), cmd)
	if err != nil {
		h.logger.InfoContext(r.Context(), "command rejected",
			"type", cmd.Type(),
			"member_id", cmd.Member().String(),
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.engine.QueryStatus(r.Context()))
}

func (h *Handler) handleRoster(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, rosterResponse{Text: h.engine.Roster(r.Context())})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	res := h.engine.OnDailyReset(r.Context())
	h.logger.InfoContext(r.Context(), "manual reset",
		"members", res.Members,
		"request_id", requestcontext.RequestID(r.Context()),
	)
	httputil.WriteJSON(w, http.StatusOK, res)
}
