package controller

import (
	"net/http"

	"github.com/trackroom/server/internal/domain"
	"github.com/trackroom/server/pkg/rest"
)

// writeError maps the domain error taxonomy onto status codes; anything
// unclassified is an internal failure.
func (c controller) writeError(w http.ResponseWriter, err error) {
	kind, ok := domain.KindOf(err)
	if !ok {
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal server error"})
		return
	}

	status := http.StatusBadRequest
	switch kind {
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindForbidden:
		status = http.StatusForbidden
	}

	rest.WriteJSON(w, status, rest.Envelope{"error": err.Error()})
}
