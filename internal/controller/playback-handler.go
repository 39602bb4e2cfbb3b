package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trackroom/server/internal/service/room"
	"github.com/trackroom/server/pkg/rest"
)

func (c controller) getPlaybackState(w http.ResponseWriter, r *http.Request) {
	view, err := c.roomService.GetPlaybackState(r.Context(), chi.URLParam(r, "room-code"))
	if err != nil {
		c.writeError(w, err)
		return
	}

	// nil means the room never started playback; the body is a JSON null
	rest.WriteJSON(w, http.StatusOK, view)
}

type playRequest struct {
	QueueItemId string `json:"queue_item_id" validate:"required"`
	PositionMs  int    `json:"position_ms" validate:"min=0"`
}

func (c controller) play(w http.ResponseWriter, r *http.Request) {
	member, ok := c.memberFromCtx(r.Context())
	if !ok {
		rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": "missing bearer token"})
		return
	}

	var req playRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}
	if errs, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": errs})
		return
	}

	view, err := c.roomService.Play(r.Context(), &room.PlayParams{
		RoomCode:    chi.URLParam(r, "room-code"),
		QueueItemId: req.QueueItemId,
		PositionMs:  req.PositionMs,
		Member:      member,
	})
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to start playback", "error", err)
		c.writeError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, view)
}

func (c controller) pause(w http.ResponseWriter, r *http.Request) {
	member, ok := c.memberFromCtx(r.Context())
	if !ok {
		rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": "missing bearer token"})
		return
	}

	view, err := c.roomService.Pause(r.Context(), &room.PauseParams{
		RoomCode: chi.URLParam(r, "room-code"),
		Member:   member,
	})
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to pause playback", "error", err)
		c.writeError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, view)
}

type seekRequest struct {
	PositionMs int `json:"position_ms" validate:"min=0"`
}

func (c controller) seek(w http.ResponseWriter, r *http.Request) {
	member, ok := c.memberFromCtx(r.Context())
	if !ok {
		rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": "missing bearer token"})
		return
	}

	var req seekRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}
	if errs, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": errs})
		return
	}

	view, err := c.roomService.Seek(r.Context(), &room.SeekParams{
		RoomCode:   chi.URLParam(r, "room-code"),
		PositionMs: req.PositionMs,
		Member:     member,
	})
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to seek playback", "error", err)
		c.writeError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, view)
}
