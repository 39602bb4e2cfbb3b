package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trackroom/server/internal/service/room"
	"github.com/trackroom/server/pkg/rest"
)

type createRoomRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=1,max=64"`
}

func (c controller) createRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}
	if errs, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": errs})
		return
	}

	view, err := c.roomService.CreateRoom(r.Context(), &room.CreateRoomParams{
		HostDisplayName: req.DisplayName,
	})
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to create room", "error", err)
		c.writeError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, view)
}

type joinRoomRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=1,max=64"`
}

func (c controller) joinRoom(w http.ResponseWriter, r *http.Request) {
	var req joinRoomRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}
	if errs, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": errs})
		return
	}

	view, err := c.roomService.JoinRoom(r.Context(), &room.JoinRoomParams{
		RoomCode:    chi.URLParam(r, "room-code"),
		DisplayName: req.DisplayName,
	})
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to join room", "error", err)
		c.writeError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, view)
}
