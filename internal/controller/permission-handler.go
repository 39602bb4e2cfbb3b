package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trackroom/server/internal/service/room"
	"github.com/trackroom/server/pkg/rest"
)

type updateCapabilitiesRequest struct {
	Capabilities []string `json:"capabilities" validate:"required"`
}

func (c controller) updateCapabilities(w http.ResponseWriter, r *http.Request) {
	member, ok := c.memberFromCtx(r.Context())
	if !ok {
		rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": "missing bearer token"})
		return
	}

	var req updateCapabilitiesRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}
	if errs, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": errs})
		return
	}

	capabilities, err := c.roomService.UpdateCapabilities(r.Context(), &room.UpdateCapabilitiesParams{
		RoomCode:           chi.URLParam(r, "room-code"),
		TargetMembershipId: chi.URLParam(r, "membership-id"),
		Capabilities:       req.Capabilities,
		Actor:              member,
	})
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to update capabilities", "error", err)
		c.writeError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"capabilities": capabilities})
}
