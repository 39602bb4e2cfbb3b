package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trackroom/server/internal/domain"
	"github.com/trackroom/server/internal/service/room"
	"github.com/trackroom/server/pkg/rest"
)

func (c controller) voteSkip(w http.ResponseWriter, r *http.Request) {
	c.vote(w, r, domain.VoteTypeSkip)
}

func (c controller) voteRemove(w http.ResponseWriter, r *http.Request) {
	c.vote(w, r, domain.VoteTypeRemove)
}

func (c controller) vote(w http.ResponseWriter, r *http.Request, voteType domain.VoteType) {
	member, ok := c.memberFromCtx(r.Context())
	if !ok {
		rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": "missing bearer token"})
		return
	}

	applied, err := c.roomService.Vote(r.Context(), &room.VoteParams{
		RoomCode: chi.URLParam(r, "room-code"),
		ItemId:   chi.URLParam(r, "item-id"),
		Type:     voteType,
		Member:   member,
	})
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to cast vote", "type", voteType, "error", err)
		c.writeError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"applied": applied})
}
