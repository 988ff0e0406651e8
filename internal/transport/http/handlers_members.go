package httptransport

import (
	"net/http"
	"strings"

	"keywatch/internal/menu"
	"keywatch/internal/presence/models"
	id "keywatch/pkg/domain"
	dErrors "keywatch/pkg/domain-errors"
	"keywatch/pkg/platform/httputil"
)

type registerRequest struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type registerResponse struct {
	Member  models.Member `json:"member"`
	Created bool          `json:"created"`
}

type presenceRequest struct {
	Location    string `json:"location"`
	DisplayName string `json:"display_name,omitempty"`
}

type notificationsRequest struct {
	Enabled *bool `json:"enabled"`
}

type vacateRequest struct {
	Location string `json:"location"`
}

type menuResponse struct {
	State   menu.State    `json:"state"`
	Variant *menu.Variant `json:"variant,omitempty"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	memberID, err := id.ParseMemberID(req.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	m, created := h.engine.Register(r.Context(), memberID, strings.TrimSpace(req.DisplayName))
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httputil.WriteJSON(w, status, registerResponse{Member: m, Created: created})
}

func (h *Handler) handlePresence(w http.ResponseWriter, r *http.Request) {
	memberID, err := memberParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req presenceRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	loc, err := id.ParseLocation(req.Location)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	res, err := h.engine.OnPresenceReport(r.Context(), memberID, strings.TrimSpace(req.DisplayName), loc)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleNotifications(w http.ResponseWriter, r *http.Request) {
	memberID, err := memberParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req notificationsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.Enabled == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "enabled is required"))
		return
	}

	if err := h.engine.SetNotifications(r.Context(), memberID, *req.Enabled); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleVacate(w http.ResponseWriter, r *http.Request) {
	memberID, err := memberParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req vacateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	loc, err := id.ParseLocation(req.Location)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	res, err := h.engine.OnRoomVacated(r.Context(), memberID, loc)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleMenu(w http.ResponseWriter, r *http.Request) {
	memberID, err := memberParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	st, err := h.engine.MenuState(r.Context(), memberID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp := menuResponse{State: st}
	if v, err := h.engine.Menu(r.Context(), memberID); err == nil {
		resp.Variant = &v
	} else if !dErrors.HasCode(err, dErrors.CodeNotFound) {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
