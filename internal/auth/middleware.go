package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/s4ngmin-9/Fast-API/internal/domain"
)

// UserLookup loads the user a token was issued for.
type UserLookup func(ctx context.Context, id int) (domain.User, error)

// ErrorWriter renders an authentication failure.
type ErrorWriter func(w http.ResponseWriter, status int, err error)

type Authenticator struct {
	issuer   *Issuer
	lookup   UserLookup
	writeErr ErrorWriter
}

func NewAuthenticator(issuer *Issuer, lookup UserLookup, writeErr ErrorWriter) *Authenticator {
	return &Authenticator{issuer: issuer, lookup: lookup, writeErr: writeErr}
}

// Authenticator requires a valid bearer token and stores its user in the
// request context.
func (a *Authenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
			a.writeErr(w, http.StatusUnauthorized, ErrInvalidToken)
			return
		}

		id, err := a.issuer.Parse(token)
		if err != nil {
			log.Debug().Err(err).Msg("rejected access token")
			a.writeErr(w, http.StatusUnauthorized, ErrInvalidToken)
			return
		}

		user, err := a.lookup(r.Context(), id)
		if errors.Is(err, domain.ErrNotFound) {
			a.writeErr(w, http.StatusNotFound, err)
			return
		}
		if err != nil {
			a.writeErr(w, http.StatusInternalServerError, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(NewUserContext(r.Context(), user)))
	})
}
