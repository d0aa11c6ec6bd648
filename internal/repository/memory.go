package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/s4ngmin-9/Fast-API/internal/domain"
)

// UserRepository keeps users in memory in insertion order.
type UserRepository struct {
	mu     sync.RWMutex
	users  []domain.User
	nextID int
}

func NewUserRepository() *UserRepository {
	return &UserRepository{nextID: 1}
}

func (r *UserRepository) Create(ctx context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return domain.User{}, fmt.Errorf("user %q: %w", u.Username, domain.ErrConflict)
		}
	}
	u.ID = r.nextID
	r.nextID++
	r.users = append(r.users, u)
	return u, nil
}

func (r *UserRepository) indexOf(id int) int {
	for i, u := range r.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (r *UserRepository) Get(ctx context.Context, id int) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		return r.users[i], nil
	}
	return domain.User{}, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.User(nil), r.users...), nil
}

func (r *UserRepository) Update(ctx context.Context, u domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(u.ID)
	if i < 0 {
		return fmt.Errorf("user %d: %w", u.ID, domain.ErrNotFound)
	}
	r.users[i] = u
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	r.users = append(r.users[:i], r.users[i+1:]...)
	return nil
}

func (r *UserRepository) Search(ctx context.Context, q domain.UserSearch) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.User
	for _, u := range r.users {
		if q.Match(u) {
			out = append(out, u)
		}
	}
	return out, nil
}

// MovieRepository keeps movies in memory keyed by id.
type MovieRepository struct {
	mu     sync.RWMutex
	movies map[int]domain.Movie
	lastID int
}

func NewMovieRepository() *MovieRepository {
	return &MovieRepository{movies: make(map[int]domain.Movie)}
}

func (r *MovieRepository) Create(ctx context.Context, m domain.Movie) (domain.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastID++
	m.ID = r.lastID
	r.movies[m.ID] = m
	return m, nil
}

func (r *MovieRepository) Get(ctx context.Context, id int) (domain.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.movies[id]
	if !ok {
		return domain.Movie{}, fmt.Errorf("movie %d: %w", id, domain.ErrNotFound)
	}
	return m, nil
}

func (r *MovieRepository) sorted(keep func(domain.Movie) bool) []domain.Movie {
	out := make([]domain.Movie, 0, len(r.movies))
	for _, m := range r.movies {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *MovieRepository) List(ctx context.Context) ([]domain.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(domain.Movie) bool { return true }), nil
}

func (r *MovieRepository) Update(ctx context.Context, m domain.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.movies[m.ID]; !ok {
		return fmt.Errorf("movie %d: %w", m.ID, domain.ErrNotFound)
	}
	r.movies[m.ID] = m
	return nil
}

func (r *MovieRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.movies[id]; !ok {
		return fmt.Errorf("movie %d: %w", id, domain.ErrNotFound)
	}
	delete(r.movies, id)
	return nil
}

func (r *MovieRepository) Search(ctx context.Context, q domain.MovieSearch) ([]domain.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(q.Match), nil
}

// HolidayRepository keeps imported holidays in memory, grouped by year.
type HolidayRepository struct {
	mu    sync.Mutex
	years map[int][]domain.Holiday
}

func NewHolidayRepository() *HolidayRepository {
	return &HolidayRepository{years: make(map[int][]domain.Holiday)}
}

func (r *HolidayRepository) YearExists(ctx context.Context, year int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.years[year]
	return ok, nil
}

func (r *HolidayRepository) Begin(ctx context.Context, year int) *Tx {
	return &Tx{repo: r, year: year}
}

func (r *HolidayRepository) InsertBatch(ctx context.Context, year int, holidays []domain.Holiday) error {
	return Retry(ctx, 3, retryDelay, func() error {
		tx := r.Begin(ctx, year)
		for _, h := range holidays {
			if err := tx.Insert(ctx, h); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

func (r *HolidayRepository) List(ctx context.Context, year int) ([]domain.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Holiday
	for y, hs := range r.years {
		if year == 0 || y == year {
			out = append(out, hs...)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// Tx buffers holidays of one year until Commit.
type Tx struct {
	repo     *HolidayRepository
	year     int
	holidays []domain.Holiday
}

func (tx *Tx) Insert(ctx context.Context, h domain.Holiday) error {
	if h.Date.Year() != tx.year {
		return fmt.Errorf("holiday %s is not in %d", h.Date.Format(domain.DateLayout), tx.year)
	}
	tx.holidays = append(tx.holidays, h)
	return nil
}

func (tx *Tx) Commit() error {
	tx.repo.mu.Lock()
	defer tx.repo.mu.Unlock()
	tx.repo.years[tx.year] = append(tx.repo.years[tx.year], tx.holidays...)
	return nil
}
