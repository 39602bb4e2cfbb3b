package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trackroom/server/internal/service/room"
	"github.com/trackroom/server/pkg/rest"
)

func (c controller) getQueue(w http.ResponseWriter, r *http.Request) {
	view, err := c.roomService.GetQueue(r.Context(), chi.URLParam(r, "room-code"))
	if err != nil {
		c.writeError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, view)
}

type enqueueRequest struct {
	TrackId         string  `json:"track_id" validate:"required"`
	Title           string  `json:"title" validate:"required,max=256"`
	DurationSeconds int     `json:"duration_seconds" validate:"required,min=1"`
	ThumbUrl        *string `json:"thumb_url"`
}

func (c controller) enqueue(w http.ResponseWriter, r *http.Request) {
	member, ok := c.memberFromCtx(r.Context())
	if !ok {
		rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": "missing bearer token"})
		return
	}

	var req enqueueRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}
	if errs, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": errs})
		return
	}

	view, err := c.roomService.Enqueue(r.Context(), &room.EnqueueParams{
		RoomCode:        chi.URLParam(r, "room-code"),
		Member:          member,
		TrackId:         req.TrackId,
		Title:           req.Title,
		DurationSeconds: req.DurationSeconds,
		ThumbUrl:        req.ThumbUrl,
	})
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to enqueue item", "error", err)
		c.writeError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, view)
}

type moveItemRequest struct {
	NewPosition int `json:"new_position" validate:"min=0"`
}

func (c controller) moveItem(w http.ResponseWriter, r *http.Request) {
	member, ok := c.memberFromCtx(r.Context())
	if !ok {
		rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": "missing bearer token"})
		return
	}

	var req moveItemRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}
	if errs, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": errs})
		return
	}

	view, err := c.roomService.Move(r.Context(), &room.MoveParams{
		RoomCode:    chi.URLParam(r, "room-code"),
		ItemId:      chi.URLParam(r, "item-id"),
		NewPosition: req.NewPosition,
		Member:      member,
	})
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to move item", "error", err)
		c.writeError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, view)
}

func (c controller) removeItem(w http.ResponseWriter, r *http.Request) {
	member, ok := c.memberFromCtx(r.Context())
	if !ok {
		rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": "missing bearer token"})
		return
	}

	if err := c.roomService.Remove(r.Context(), &room.RemoveParams{
		RoomCode: chi.URLParam(r, "room-code"),
		ItemId:   chi.URLParam(r, "item-id"),
		Member:   member,
	}); err != nil {
		c.logger.InfoContext(r.Context(), "failed to remove item", "error", err)
		c.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
