package controller

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type eventMessage struct {
	Channel string          `json:"channel"`
	Payload json.RawMessage `json:"payload"`
}

// roomEvents upgrades the connection and forwards the room's queue and
// playback events until the client disconnects.
func (c controller) roomEvents(w http.ResponseWriter, r *http.Request) {
	roomCode := chi.URLParam(r, "room-code")

	if _, err := c.roomService.GetQueue(r.Context(), roomCode); err != nil {
		c.writeError(w, err)
		return
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response
		c.logger.InfoContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	events, closeSub := c.events.SubscribeRoom(r.Context(), roomCode)
	defer closeSub()

	// drain the read side so close frames and pings are processed
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				closeSub()
				return
			}
		}
	}()

	for event := range events {
		msg := eventMessage{
			Channel: event.Channel,
			Payload: json.RawMessage(event.Payload),
		}
		if err := conn.WriteJSON(msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.InfoContext(r.Context(), "failed to write event", "error", err)
			}
			return
		}
	}
}
