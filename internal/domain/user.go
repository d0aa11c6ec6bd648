package domain

import (
	"context"
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type User struct {
	ID             int        `json:"id"`
	Username       string     `json:"username"`
	HashedPassword string     `json:"-"`
	Age            int        `json:"age"`
	Gender         Gender     `json:"gender"`
	LastLogin      *time.Time `json:"last_login"`
}

type UserCreate struct {
	Username string `json:"username" validate:"required,min=1,max=50"`
	Password string `json:"password" validate:"required,min=8"`
	Age      int    `json:"age" validate:"gt=0"`
	Gender   string `json:"gender" validate:"gender"`
}

// UserUpdate carries the fields to change; nil fields are left alone.
type UserUpdate struct {
	Password  *string    `json:"password" validate:"omitempty,min=8"`
	Age       *int       `json:"age" validate:"omitempty,gt=0"`
	Gender    *string    `json:"gender" validate:"omitempty,gender"`
	LastLogin *time.Time `json:"last_login"`
}

// UserSearch matches exactly on every non-zero field.
type UserSearch struct {
	Username string
	Age      int
	Gender   Gender
}

func (s UserSearch) Match(u User) bool {
	if s.Username != "" && u.Username != s.Username {
		return false
	}
	if s.Age != 0 && u.Age != s.Age {
		return false
	}
	if s.Gender != "" && u.Gender != s.Gender {
		return false
	}
	return true
}

type UserStore interface {
	Create(ctx context.Context, u User) (User, error)
	Get(ctx context.Context, id int) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id int) error
	Search(ctx context.Context, q UserSearch) ([]User, error)
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int) (string, error)
}
