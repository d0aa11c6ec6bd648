package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	store  UserStore
	tokens TokenIssuer
	cost   int
	now    func() time.Time
}

type UserServiceOption func(*UserService)

// WithHashCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func WithHashCost(cost int) UserServiceOption {
	return func(s *UserService) { s.cost = cost }
}

func WithClock(now func() time.Time) UserServiceOption {
	return func(s *UserService) { s.now = now }
}

func NewUserService(store UserStore, tokens TokenIssuer, opts ...UserServiceOption) *UserService {
	s := &UserService{store: store, tokens: tokens, cost: bcrypt.DefaultCost, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *UserService) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func (s *UserService) Create(ctx context.Context, in UserCreate) (User, error) {
	if err := Validate(in); err != nil {
		return User{}, err
	}
	if _, err := s.store.GetByUsername(ctx, in.Username); err == nil {
		return User{}, fmt.Errorf("user %q: %w", in.Username, ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hashed, err := s.hash(in.Password)
	if err != nil {
		return User{}, err
	}
	return s.store.Create(ctx, User{
		Username:       in.Username,
		HashedPassword: hashed,
		Age:            in.Age,
		Gender:         Gender(in.Gender),
	})
}

func (s *UserService) List(ctx context.Context) ([]User, error) {
	return s.store.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id int) (User, error) {
	return s.store.Get(ctx, id)
}

func (s *UserService) Update(ctx context.Context, id int, in UserUpdate) (User, error) {
	if err := Validate(in); err != nil {
		return User{}, err
	}
	u, err := s.store.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	if in.Password != nil {
		if u.HashedPassword, err = s.hash(*in.Password); err != nil {
			return User{}, err
		}
	}
	if in.Age != nil {
		u.Age = *in.Age
	}
	if in.Gender != nil {
		u.Gender = Gender(*in.Gender)
	}
	if in.LastLogin != nil {
		ll := *in.LastLogin
		u.LastLogin = &ll
	}
	if err := s.store.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id int) error {
	return s.store.Delete(ctx, id)
}

func (s *UserService) Search(ctx context.Context, q UserSearch) ([]User, error) {
	return s.store.Search(ctx, q)
}

// Authenticate returns the user whose password matches. An unknown username
// and a wrong password both yield ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (User, error) {
	u, err := s.store.GetByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates the user, records the login time and issues a token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, User, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", User{}, err
	}
	now := s.now().UTC()
	u.LastLogin = &now
	if err := s.store.Update(ctx, u); err != nil {
		return "", User{}, err
	}
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", User{}, fmt.Errorf("issue token: %w", err)
	}
	return token, u, nil
}

// SeedDemo creates the two demo accounts when the store is empty.
func (s *UserService) SeedDemo(ctx context.Context) error {
	users, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}
	for _, in := range []UserCreate{
		{Username: "john_doe", Password: "password123", Age: 30, Gender: string(GenderMale)},
		{Username: "jane_doe", Password: "password456", Age: 25, Gender: string(GenderFemale)},
	} {
		if _, err := s.Create(ctx, in); err != nil {
			return fmt.Errorf("seed %s: %w", in.Username, err)
		}
	}
	log.Info().Msg("seeded demo users")
	return nil
}
