package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/s4ngmin-9/Fast-API/internal/auth"
	"github.com/s4ngmin-9/Fast-API/internal/domain"
)

type apiError struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

var (
	errUserNotFound       = apiError{ID: "ERR_NOT_FOUND", Message: "User not found"}
	errMovieNotFound      = apiError{ID: "ERR_NOT_FOUND", Message: "Movie not found"}
	errUserExists         = apiError{ID: "ERR_CONFLICT", Message: "User with this username already exists."}
	errBadCredentials     = apiError{ID: "ERR_UNAUTHORIZED", Message: "Incorrect username or password"}
	errCredentials        = apiError{ID: "ERR_UNAUTHORIZED", Message: "Could not validate credentials"}
	errInvalidID          = apiError{ID: "ERR_VALIDATION", Message: "id must be a positive integer"}
	errInvalidDate        = apiError{ID: "ERR_INVALID_DATE", Message: "invalid purchase_date format, expected YYYY-MM-DD"}
	errInvalidBody        = apiError{ID: "ERR_INVALID_BODY", Message: "invalid request body"}
	errRateLimited        = apiError{ID: "ERR_RATE_LIMITED", Message: "rate limit exceeded"}
	errInternal           = apiError{ID: "ERR_INTERNAL", Message: "internal server error"}
	errUnsupportedContent = apiError{ID: "ERR_UNSUPPORTED_MEDIA_TYPE", Message: "Content-Type must be application/json"}
)

func validationError(err error) apiError {
	return apiError{ID: "ERR_VALIDATION", Message: err.Error()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, e apiError) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeJSON(w, status, e)
}

// writeDomainError maps service errors onto responses. notFound is the body
// used for domain.ErrNotFound.
func writeDomainError(w http.ResponseWriter, err error, notFound apiError) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusUnprocessableEntity, validationError(verr))
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, errUserExists)
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, errBadCredentials)
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, errInternal)
	}
}

// writeAuthError renders failures reported by the authenticator.
func writeAuthError(w http.ResponseWriter, status int, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, errCredentials)
	case status == http.StatusNotFound:
		writeError(w, status, errUserNotFound)
	default:
		log.Error().Err(err).Msg("authentication failed")
		writeError(w, http.StatusInternalServerError, errInternal)
	}
}
