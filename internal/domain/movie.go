package domain

import (
	"context"
	"strings"
)

type Movie struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Playtime int    `json:"playtime"`
	Genre    string `json:"genre"`
}

type MovieCreate struct {
	Title    string `json:"title" validate:"required"`
	Playtime int    `json:"playtime" validate:"gte=0"`
	Genre    string `json:"genre" validate:"required"`
}

type MovieUpdate struct {
	Title    string `json:"title" validate:"required"`
	Playtime int    `json:"playtime" validate:"gt=0"`
	Genre    string `json:"genre" validate:"required"`
}

// MovieSearch matches case-insensitive substrings; nil fields match anything.
type MovieSearch struct {
	Title *string
	Genre *string
}

func (s MovieSearch) IsEmpty() bool {
	return s.Title == nil && s.Genre == nil
}

func (s MovieSearch) Match(m Movie) bool {
	if s.Title != nil && !strings.Contains(strings.ToLower(m.Title), strings.ToLower(*s.Title)) {
		return false
	}
	if s.Genre != nil && !strings.Contains(strings.ToLower(m.Genre), strings.ToLower(*s.Genre)) {
		return false
	}
	return true
}

type MovieStore interface {
	Create(ctx context.Context, m Movie) (Movie, error)
	Get(ctx context.Context, id int) (Movie, error)
	List(ctx context.Context) ([]Movie, error)
	Update(ctx context.Context, m Movie) error
	Delete(ctx context.Context, id int) error
	Search(ctx context.Context, q MovieSearch) ([]Movie, error)
}
