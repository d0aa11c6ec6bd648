package domain

import "context"

type MovieService struct {
	store MovieStore
}

func NewMovieService(store MovieStore) *MovieService {
	return &MovieService{store: store}
}

// Create stores the movie and returns every movie, the new one included.
func (s *MovieService) Create(ctx context.Context, in MovieCreate) ([]Movie, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	if _, err := s.store.Create(ctx, Movie{Title: in.Title, Playtime: in.Playtime, Genre: in.Genre}); err != nil {
		return nil, err
	}
	return s.store.List(ctx)
}

func (s *MovieService) List(ctx context.Context) ([]Movie, error) {
	return s.store.List(ctx)
}

// Search returns the movies matching q. With an empty query, or when nothing
// matches, all movies are returned.
func (s *MovieService) Search(ctx context.Context, q MovieSearch) ([]Movie, error) {
	if q.IsEmpty() {
		return s.List(ctx)
	}
	movies, err := s.store.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return s.List(ctx)
	}
	return movies, nil
}

func (s *MovieService) Get(ctx context.Context, id int) (Movie, error) {
	return s.store.Get(ctx, id)
}

func (s *MovieService) Update(ctx context.Context, id int, in MovieUpdate) (Movie, error) {
	if err := Validate(in); err != nil {
		return Movie{}, err
	}
	m, err := s.store.Get(ctx, id)
	if err != nil {
		return Movie{}, err
	}
	m.Title, m.Playtime, m.Genre = in.Title, in.Playtime, in.Genre
	if err := s.store.Update(ctx, m); err != nil {
		return Movie{}, err
	}
	return m, nil
}

func (s *MovieService) Delete(ctx context.Context, id int) error {
	return s.store.Delete(ctx, id)
}
