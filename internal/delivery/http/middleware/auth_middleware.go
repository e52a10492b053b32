package middleware

import (
	"errors"
	"strings"

	"smart-hr/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUsernameKey = "username"
	CtxRoleKey     = "role"
)

type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := BearerToken(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.jwt.Parse(token, jwt.TokenTypeAccess)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUsernameKey, claims.Username)
		c.Locals(CtxRoleKey, claims.Role)

		return c.Next()
	}
}

// RequireRole lets the request through only for one of roles. It must run
// after Middleware.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[strings.ToUpper(r)] = struct{}{}
	}
	return func(c fiber.Ctx) error {
		role, _ := c.Locals(CtxRoleKey).(string)
		if _, ok := allowed[strings.ToUpper(role)]; !ok {
			return NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
		}
		return c.Next()
	}
}

func UserID(c fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(CtxUserIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// Actor names the authenticated user for audit records.
func Actor(c fiber.Ctx) string {
	if name, _ := c.Locals(CtxUsernameKey).(string); name != "" {
		return name
	}
	if id, ok := UserID(c); ok {
		return id.String()
	}
	return "system"
}

func BearerToken(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
