package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"postboard/app/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Settings holds the presentation knobs of the controllers.
type Settings struct {
	PostsPageSize            int
	CommentsPageSize         int
	CommentsLoadMorePageSize int
	PreviewWords             int
}

type envelope map[string]interface{}

// sendJSON writes a successful response.
func sendJSON(w http.ResponseWriter, status int, data envelope) {
	data["success"] = true
	writeJSON(w, status, data)
}

// sendError maps err onto a status code and writes the failure response.
func sendError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, envelope{"success": false, "errors": verr.Fields})
	case errors.Is(err, services.ErrMalformedInput):
		writeMessage(w, http.StatusBadRequest, "Invalid JSON data")
	case errors.Is(err, services.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid username or password.")
	case errors.Is(err, services.ErrForbidden):
		writeMessage(w, http.StatusForbidden, "You do not have permission to perform this action.")
	case errors.Is(err, services.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Not found.")
	default:
		hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeMessage(w, http.StatusInternalServerError, "An internal error occurred.")
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{"success": false, "message": message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// NotFound answers unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusNotFound, "Not found.")
}

// MethodNotAllowed answers known routes called with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusMethodNotAllowed, "Method \""+r.Method+"\" not allowed.")
}

// decodeJSON reads the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return services.ErrMalformedInput
	}
	return nil
}

// pathID reads a numeric route variable. Routes only match digits, so a
// failure means the id overflows and cannot exist.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, services.ErrNotFound
	}
	return id, nil
}
