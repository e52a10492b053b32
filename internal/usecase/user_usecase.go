package usecase

import (
	"context"
	"errors"

	"smart-hr/internal/domain/user"

	"github.com/google/uuid"
)

type UserUsecase interface {
	GetMe(ctx context.Context, userID uuid.UUID) (user.User, error)
}

type User struct {
	users user.Repository
}

func NewUserUsecase(users user.Repository) *User {
	return &User{users: users}
}

func (u *User) GetMe(ctx context.Context, userID uuid.UUID) (user.User, error) {
	if userID == uuid.Nil {
		return user.User{}, ErrUnauthorized
	}
	usr, err := u.users.GetByID(ctx, userID)
	switch {
	case errors.Is(err, user.ErrNotFound):
		return user.User{}, ErrNotFound
	case err != nil:
		return user.User{}, ErrInternal
	}
	return usr.Public(), nil
}
