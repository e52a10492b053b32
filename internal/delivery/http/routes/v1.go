package routes

import (
	v1 "smart-hr/internal/delivery/http/routes/v1"
	"smart-hr/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, h v1.Handlers, authMw *middleware.AuthMiddleware) {
	if r == nil {
		return
	}

	v1.Register(r, h, authMw)
}
