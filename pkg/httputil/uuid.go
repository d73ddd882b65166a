package httputil

import (
	"net/http"

	"github.com/google/uuid"
)

// ParseUUID validates a path parameter as a UUID. On failure it writes a 400
// response and returns ok=false.
func ParseUUID(w http.ResponseWriter, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		WriteJSON(w, http.StatusBadRequest, Response{
			Error: &ErrorResponse{Code: "INVALID_PARAMETER", Message: "id must be a valid UUID"},
		})
		return uuid.UUID{}, false
	}
	return id, true
}
