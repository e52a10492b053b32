package v1

import (
	"smart-hr/internal/delivery/http/handler"
	"smart-hr/internal/delivery/http/middleware"
	"smart-hr/internal/domain/user"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Intake       *handler.IntakeHandler
	Jobs         *handler.JobHandler
	Applications *handler.ApplicationHandler
	Board        *handler.BoardHandler
	Reports      *handler.ReportHandler
}

func Register(r fiber.Router, h Handlers, authMw *middleware.AuthMiddleware) {
	if r == nil || authMw == nil {
		return
	}

	authGroup := r.Group("/auth")
	h.Auth.RegisterRoutes(authGroup)

	h.Intake.RegisterRoutes(r.Group("/public"))

	protected := r.Group("", authMw.Middleware())
	protected.Get("/auth/me", h.Auth.Me)

	admin := middleware.RequireRole(string(user.RoleAdmin))

	RegisterJobs(protected.Group("/jobs"), h.Jobs, admin)
	RegisterApplications(protected.Group("/applications"), h.Applications, admin)

	h.Board.RegisterRoutes(protected.Group("/board", admin))
	h.Reports.RegisterRoutes(protected.Group("/reports", admin))
}

func RegisterJobs(r fiber.Router, jobs *handler.JobHandler, admin fiber.Handler) {
	if jobs == nil {
		return
	}
	jobs.RegisterRoutes(r, admin)
}

func RegisterApplications(r fiber.Router, apps *handler.ApplicationHandler, admin fiber.Handler) {
	if apps == nil {
		return
	}
	apps.RegisterRoutes(r, admin)
}
