package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"keywatch/internal/engine/command"
	id "keywatch/pkg/domain"
	"keywatch/pkg/platform/httputil"
)

type confirmationRequest struct {
	MemberID       string `json:"member_id"`
	Answer         string `json:"answer"`
	ConfirmationID string `json:"confirmation_id,omitempty"`
}

type keyQueryRequest struct {
	MemberID string `json:"member_id"`
}

func (h *Handler) handleConfirmation(w http.ResponseWriter, r *http.Request) {
	keyID, err := id.ParseKeyID(chi.URLParam(r, "key"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req confirmationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	memberID, err := id.ParseMemberID(req.MemberID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	yes, err := command.ParseAnswer(req.Answer)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var confirmationID id.ConfirmationID
	if req.ConfirmationID != "" {
		if confirmationID, err = id.ParseConfirmationID(req.ConfirmationID); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	res, err := h.engine.OnConfirmationAnswer(r.Context(), memberID, keyID, yes, confirmationID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleKeyQuery(w http.ResponseWriter, r *http.Request) {
	keyID, err := id.ParseKeyID(chi.URLParam(r, "key"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req keyQueryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	memberID, err := id.ParseMemberID(req.MemberID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	res, err := h.engine.OnKeyStatusQuery(r.Context(), memberID, keyID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}
