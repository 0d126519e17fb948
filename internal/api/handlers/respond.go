package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bleupos/promo-service/internal/models"
)

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func errBody(msg string) map[string]string {
	return map[string]string{"detail": msg}
}

// writeError maps the error taxonomy onto HTTP status codes. Identity
// service errors propagate the upstream status; anything unclassified
// is a 500.
func writeError(w http.ResponseWriter, err error) {
	var (
		validationErr  *models.ValidationError
		forbiddenErr   *models.ForbiddenError
		conflictErr    *models.ConflictError
		authErr        *models.AuthServiceError
		upstreamErr    *models.UpstreamError
		unavailableErr *models.UnavailableError
	)
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errBody(validationErr.Error()))
	case errors.As(err, &forbiddenErr):
		writeJSON(w, http.StatusForbidden, errBody(forbiddenErr.Error()))
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errBody("not found"))
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusConflict, errBody(conflictErr.Error()))
	case errors.As(err, &authErr):
		writeJSON(w, authErr.StatusCode, errBody(authErr.Error()))
	case errors.As(err, &upstreamErr):
		writeJSON(w, http.StatusBadGateway, errBody(upstreamErr.Error()))
	case errors.As(err, &unavailableErr):
		writeJSON(w, http.StatusServiceUnavailable, errBody(unavailableErr.Error()))
	default:
		log.Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errBody("internal server error"))
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
