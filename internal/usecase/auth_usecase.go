package usecase

import (
	"context"
	"errors"
	"time"

	"smart-hr/internal/domain/user"
	"smart-hr/internal/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
)

type LoginInput struct {
	Username string
	Password string
}

// Session is what a successful login or refresh hands back to the client.
type Session struct {
	User            user.User
	AccessToken     string
	RefreshToken    string
	AccessExpiresAt time.Time
}

type AuthUsecase interface {
	Login(ctx context.Context, in LoginInput) (Session, error)
	Refresh(ctx context.Context, refreshToken string) (Session, error)
}

type Auth struct {
	users user.Repository
	jwt   jwt.Service
}

func NewAuthUsecase(users user.Repository, jwtSvc jwt.Service) *Auth {
	return &Auth{users: users, jwt: jwtSvc}
}

// decoyHash is compared when the username is unknown so both failure paths
// cost one bcrypt comparison.
var decoyHash, _ = bcrypt.GenerateFromPassword([]byte("smart-hr-decoy"), bcrypt.DefaultCost)

func (u *Auth) Login(ctx context.Context, in LoginInput) (Session, error) {
	username := user.NormalizeUsername(in.Username)
	if username == "" || in.Password == "" {
		return Session{}, ErrUnauthorized
	}

	usr, err := u.users.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, user.ErrNotFound):
		_ = bcrypt.CompareHashAndPassword(decoyHash, []byte(in.Password))
		return Session{}, ErrUnauthorized
	case err != nil:
		return Session{}, ErrInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(in.Password)) != nil || !usr.Role.Valid() {
		return Session{}, ErrUnauthorized
	}
	return u.issue(usr)
}

// Refresh reloads the account so a role change or deletion takes effect on
// the next refresh rather than when the refresh token expires.
func (u *Auth) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	if refreshToken == "" {
		return Session{}, ErrUnauthorized
	}

	claims, err := u.jwt.Parse(refreshToken, jwt.TokenTypeRefresh)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Session{}, ErrRefreshTokenExpired
		}
		return Session{}, ErrInvalidRefreshToken
	}

	usr, err := u.users.GetByID(ctx, claims.UserID)
	switch {
	case errors.Is(err, user.ErrNotFound):
		return Session{}, ErrInvalidRefreshToken
	case err != nil:
		return Session{}, ErrInternal
	}
	if !usr.Role.Valid() {
		return Session{}, ErrInvalidRefreshToken
	}
	return u.issue(usr)
}

func (u *Auth) issue(usr user.User) (Session, error) {
	pair, err := u.jwt.IssuePair(usr.ID, usr.Username, string(usr.Role))
	if err != nil {
		return Session{}, ErrInternal
	}
	return Session{
		User:            usr.Public(),
		AccessToken:     pair.Access,
		RefreshToken:    pair.Refresh,
		AccessExpiresAt: pair.AccessExpiresAt,
	}, nil
}
