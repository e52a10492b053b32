package ws

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"smart-hr/internal/domain/user"
	"smart-hr/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
)

// Handler upgrades board subscriptions. Events carry candidate data, so the
// subscriber must present an admin access token, either as ?token= (browsers
// cannot set headers on a WebSocket handshake) or as a bearer header.
type Handler struct {
	hub      *Hub
	tokens   jwt.Service
	logger   *log.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, tokens jwt.Service, logger *log.Logger) *Handler {
	return &Handler{
		hub:    hub,
		tokens: tokens,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *Handler) HandleBoardWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	actor, err := h.authorize(c)
	if err != nil {
		return err
	}

	return adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logf("[WS] upgrade failed actor=%s err=%v", actor, err)
			return
		}
		client := NewClient(h.hub, conn, actor)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})(c)
}

func (h *Handler) authorize(c fiber.Ctx) (string, error) {
	if h.tokens == nil {
		return "", fiber.ErrServiceUnavailable
	}
	raw := strings.TrimSpace(c.Query("token"))
	if raw == "" {
		if v, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer "); ok {
			raw = strings.TrimSpace(v)
		}
	}
	if raw == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	claims, err := h.tokens.Parse(raw, jwt.TokenTypeAccess)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fiber.NewError(fiber.StatusUnauthorized, "Token expired")
		}
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}
	if user.Role(strings.ToUpper(claims.Role)) != user.RoleAdmin {
		return "", fiber.NewError(fiber.StatusForbidden, "Forbidden")
	}
	if claims.Username != "" {
		return claims.Username, nil
	}
	return claims.UserID.String(), nil
}

func (h *Handler) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}
