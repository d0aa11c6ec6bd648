package auth

import (
	"context"

	"github.com/s4ngmin-9/Fast-API/internal/domain"
)

type userKeyType struct{}

var userKey userKeyType

func UserFromContext(ctx context.Context) (domain.User, bool) {
	val := ctx.Value(userKey)
	if val == nil {
		return domain.User{}, false
	}
	return val.(domain.User), true
}

func NewUserContext(ctx context.Context, u domain.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}
