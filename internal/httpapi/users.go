package httpapi

import (
	"net/http"
	"strconv"

	"github.com/s4ngmin-9/Fast-API/internal/auth"
	"github.com/s4ngmin-9/Fast-API/internal/domain"
)

var (
	errNoUsers        = apiError{ID: "ERR_NOT_FOUND", Message: "No users found"}
	errNoMatchingUser = apiError{ID: "ERR_NOT_FOUND", Message: "No users found matching the criteria"}
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *handler) createUser(w http.ResponseWriter, r *http.Request) {
	var in domain.UserCreate
	if !decodeJSON(w, r, &in) {
		return
	}
	u, err := h.users.Create(r.Context(), in)
	if err != nil {
		writeDomainError(w, err, errUserNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeDomainError(w, err, errNoUsers)
		return
	}
	if len(users) == 0 {
		writeError(w, http.StatusNotFound, errNoUsers)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *handler) searchUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := domain.UserSearch{
		Username: q.Get("username"),
		Gender:   domain.Gender(q.Get("gender")),
	}
	if raw := q.Get("age"); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, apiError{ID: "ERR_VALIDATION", Message: "age must be an integer"})
			return
		}
		search.Age = age
	}

	users, err := h.users.Search(r.Context(), search)
	if err != nil {
		writeDomainError(w, err, errNoMatchingUser)
		return
	}
	if len(users) == 0 {
		writeError(w, http.StatusNotFound, errNoMatchingUser)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, errInvalidBody)
		return
	}
	username, password := r.PostForm.Get("username"), r.PostForm.Get("password")
	if username == "" || password == "" {
		writeError(w, http.StatusUnprocessableEntity, apiError{ID: "ERR_VALIDATION", Message: "username and password are required"})
		return
	}

	token, _, err := h.users.Login(r.Context(), username, password)
	if err != nil {
		writeDomainError(w, err, errUserNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, errCredentials)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, errInvalidID)
		return
	}
	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, errUserNotFound)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, errInvalidID)
		return
	}
	var in domain.UserUpdate
	if !decodeJSON(w, r, &in) {
		return
	}
	u, err := h.users.Update(r.Context(), id, in)
	if err != nil {
		writeDomainError(w, err, errUserNotFound)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, errInvalidID)
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err, errUserNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
