package dto

import (
	"time"

	"smart-hr/internal/domain/user"
	"smart-hr/internal/usecase"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email,omitempty"`
	FullName string    `json:"full_name"`
	Role     user.Role `json:"role"`
}

func NewUserResponse(u user.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email, FullName: u.FullName, Role: u.Role}
}

type SessionResponse struct {
	User         *UserResponse `json:"user,omitempty"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	ExpiresAt    time.Time     `json:"expires_at"`
}

// NewSessionResponse includes the profile only when withUser is set; a
// refresh already knows who it is.
func NewSessionResponse(s usecase.Session, withUser bool) SessionResponse {
	out := SessionResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    s.AccessExpiresAt.UTC(),
	}
	if withUser {
		u := NewUserResponse(s.User)
		out.User = &u
	}
	return out
}
