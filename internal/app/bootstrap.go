package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"smart-hr/internal/config"
	"smart-hr/internal/delivery/http/handler"
	"smart-hr/internal/delivery/http/middleware"
	"smart-hr/internal/delivery/http/routes"
	v1 "smart-hr/internal/delivery/http/routes/v1"
	"smart-hr/internal/usecase"
	"smart-hr/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	cfg := c.Config
	f := fiber.New(fiber.Config{
		AppName:   cfg.App.AppName,
		BodyLimit: int(cfg.Storage.MaxBytes) + 1<<20,
	})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap connects every dependency, loads the board and returns the
// app with its cleanup.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := c.InitRuntime(); err != nil {
		_ = c.Close()
		return nil, nil, err
	}
	c.Start()

	app := New(c)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := c.Store.Load(ctx, usecase.StoreLoader{Applications: c.Apps, Jobs: c.Jobs}); err != nil {
		c.Logger.Printf("[Board] initial load failed, starting empty err=%v", err)
	} else {
		c.Logger.Printf("[Board] loaded applications=%d jobs=%d", len(c.Store.Applications()), len(c.Store.Jobs()))
	}

	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	accessMw := middleware.NewAccessLogMiddleware(c.Logger, "/health")
	errMw := middleware.NewErrorMiddleware(c.Logger)
	app.Use(accessMw.Middleware())
	app.Use(errMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}
	cfg := c.Config
	loader := usecase.StoreLoader{Applications: c.Apps, Jobs: c.Jobs}

	transitions := usecase.NewTransitionUsecase(usecase.TransitionDeps{
		Store:    c.Store,
		Writer:   c.Apps,
		Audit:    c.Transitions,
		Pool:     c.Pool,
		Notifier: c.Notifier,
		Events:   c.Hub,
		Logger:   c.Logger,
	}, cfg.Pipeline)

	apps := usecase.NewApplicationUsecase(usecase.ApplicationDeps{
		Store:       c.Store,
		Apps:        c.Apps,
		Jobs:        c.Jobs,
		Transitions: c.Transitions,
		AI:          c.Gateway,
		Files:       c.Files,
		Pool:        c.Pool,
		Events:      c.Hub,
		Logger:      c.Logger,
	}, cfg.Pipeline, cfg.App.CompanyName)

	var lock usecase.DropLock
	if c.Cache.Available() {
		lock = c.Cache
	}
	boardUC := usecase.NewBoardUsecase(c.Store, loader, transitions, lock, c.Hub, c.Logger)
	intakeUC := usecase.NewIntakeUsecase(c.Apps, c.Jobs, c.Gateway, c.Files, c.Store, c.Hub, c.Logger)
	jobUC := usecase.NewJobUsecase(c.Jobs, c.Store, c.Gateway, c.Logger)
	reportUC := usecase.NewReportUsecase(c.Reports, c.Store, c.Logger)
	authUC := usecase.NewAuthUsecase(c.Users, c.JWT)
	userUC := usecase.NewUserUsecase(c.Users)

	var cachePinger handler.Pinger
	if c.Cache.Available() {
		cachePinger = c.Cache
	}
	registry := routes.NewRegistry(
		handler.NewHealthHandler(c.DB, cachePinger),
		ws.NewHandler(c.Hub, c.JWT, c.Logger),
		middleware.NewAuthMiddleware(c.JWT),
		v1.Handlers{
			Auth:         handler.NewAuthHandler(authUC, userUC),
			Intake:       handler.NewIntakeHandler(intakeUC),
			Jobs:         handler.NewJobHandler(jobUC),
			Applications: handler.NewApplicationHandler(apps, transitions),
			Board:        handler.NewBoardHandler(boardUC),
			Reports:      handler.NewReportHandler(reportUC),
		},
	)
	registry.ServeFiles(cfg.Storage.PublicBase, c.Files.Root())
	registry.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
