package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role decides which routes an account reaches: ADMIN runs the pipeline,
// USER only reads openings.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	FullName     string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Public returns u without credentials.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
