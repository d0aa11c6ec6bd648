package httpapi

import (
	"net/http"

	"github.com/s4ngmin-9/Fast-API/internal/domain"
)

func (h *handler) createMovie(w http.ResponseWriter, r *http.Request) {
	var in domain.MovieCreate
	if !decodeJSON(w, r, &in) {
		return
	}
	movies, err := h.movies.Create(r.Context(), in)
	if err != nil {
		writeDomainError(w, err, errMovieNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, movies)
}

// listMovies filters by the title and genre query parameters and falls back to
// every movie when nothing matches.
func (h *handler) listMovies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var search domain.MovieSearch
	if q.Has("title") {
		title := q.Get("title")
		search.Title = &title
	}
	if q.Has("genre") {
		genre := q.Get("genre")
		search.Genre = &genre
	}

	movies, err := h.movies.Search(r.Context(), search)
	if err != nil {
		writeDomainError(w, err, errMovieNotFound)
		return
	}
	if movies == nil {
		movies = []domain.Movie{}
	}
	writeJSON(w, http.StatusOK, movies)
}

func (h *handler) getMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, errInvalidID)
		return
	}
	m, err := h.movies.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, errMovieNotFound)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *handler) updateMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, errInvalidID)
		return
	}
	var in domain.MovieUpdate
	if !decodeJSON(w, r, &in) {
		return
	}
	m, err := h.movies.Update(r.Context(), id, in)
	if err != nil {
		writeDomainError(w, err, errMovieNotFound)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *handler) deleteMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, errInvalidID)
		return
	}
	if err := h.movies.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err, errMovieNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
