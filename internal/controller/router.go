package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.AllowAll().Handler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", c.createRoom)

			r.Route("/{room-code}", func(r chi.Router) {
				r.Post("/join", c.joinRoom)
				r.Get("/events", c.roomEvents)

				r.Route("/queue", func(r chi.Router) {
					r.Get("/", c.getQueue)

					r.Group(func(r chi.Router) {
						r.Use(c.authMw)
						r.Post("/", c.enqueue)

						r.Route("/{item-id}", func(r chi.Router) {
							r.Put("/move", c.moveItem)
							r.Delete("/", c.removeItem)
							r.Post("/vote-skip", c.voteSkip)
							r.Post("/vote-remove", c.voteRemove)
						})
					})
				})

				r.Route("/playback", func(r chi.Router) {
					r.Get("/", c.getPlaybackState)

					r.Group(func(r chi.Router) {
						r.Use(c.authMw)
						r.Post("/play", c.play)
						r.Post("/pause", c.pause)
						r.Post("/seek", c.seek)
					})
				})

				r.With(c.authMw).Post("/permissions/{membership-id}", c.updateCapabilities)
			})
		})
	})

	return r
}
