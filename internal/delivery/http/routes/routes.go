package routes

import (
	"smart-hr/internal/delivery/http/handler"
	"smart-hr/internal/delivery/http/middleware"
	v1 "smart-hr/internal/delivery/http/routes/v1"
	"smart-hr/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/static"
)

type Registry struct {
	health *handler.HealthHandler
	board  *ws.Handler
	auth   *middleware.AuthMiddleware
	v1     v1.Handlers

	filesPrefix string
	filesRoot   string
}

func NewRegistry(health *handler.HealthHandler, board *ws.Handler, auth *middleware.AuthMiddleware, h v1.Handlers) *Registry {
	return &Registry{health: health, board: board, auth: auth, v1: h}
}

// ServeFiles exposes uploaded CVs stored under root at prefix.
func (r *Registry) ServeFiles(prefix, root string) {
	r.filesPrefix = prefix
	r.filesRoot = root
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerFiles(app)
	r.registerWS(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerFiles(app *fiber.App) {
	if r.filesPrefix == "" || r.filesRoot == "" {
		return
	}
	app.Use(r.filesPrefix, static.New(r.filesRoot))
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.board == nil {
		return
	}
	app.Get("/ws/board", r.board.HandleBoardWS)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.v1, r.auth)
}
