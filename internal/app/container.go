package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"smart-hr/internal/config"
	"smart-hr/internal/database"
	dbpostgres "smart-hr/internal/database/postgres"
	"smart-hr/internal/enrichment"
	"smart-hr/internal/infrastructure/ai"
	"smart-hr/internal/infrastructure/cache"
	"smart-hr/internal/infrastructure/notify"
	"smart-hr/internal/infrastructure/persistence/postgres"
	"smart-hr/internal/infrastructure/storage"
	"smart-hr/internal/pkg/jwt"
	"smart-hr/internal/repository"
	"smart-hr/internal/store"
	"smart-hr/internal/worker"
	"smart-hr/internal/ws"
)

// Container owns the long-lived dependencies. NewContainer only connects
// the database; InitRuntime builds the rest for the HTTP server.
type Container struct {
	Config config.Config
	DB     database.DB
	Logger *log.Logger

	Cache    *cache.Redis
	Hub      *ws.Hub
	Pool     *worker.Pool
	Store    *store.Store
	Files    *storage.Local
	Notifier notify.Notifier
	Gateway  *enrichment.Gateway
	JWT      jwt.Service

	Users        *postgres.UserRepository
	Apps         *repository.PostgresApplicationRepository
	Jobs         *repository.PostgresJobRepository
	Transitions  *repository.PostgresTransitionRepository
	Reports      *repository.PostgresReportRepository
	Localization *repository.PostgresLocalizationRepository

	poolDone chan struct{}
}

func NewContainer(cfg config.Config) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	return &Container{Config: cfg, DB: db, Logger: log.Default()}, nil
}

func (c *Container) InitRuntime() error {
	cfg := c.Config
	logger := c.Logger

	users, err := postgres.NewUserRepository(c.DB)
	if err != nil {
		return fmt.Errorf("prepare user repository: %w", err)
	}
	c.Users = users
	c.Apps = repository.NewPostgresApplicationRepository(c.DB)
	c.Jobs = repository.NewPostgresJobRepository(c.DB)
	c.Transitions = repository.NewPostgresTransitionRepository(c.DB)
	c.Reports = repository.NewPostgresReportRepository(c.DB)
	c.Localization = repository.NewPostgresLocalizationRepository(c.DB)

	files, err := storage.NewLocal(cfg.Storage)
	if err != nil {
		return err
	}
	c.Files = files

	c.Cache = cache.NewRedis(cfg.Redis, logger)
	c.Hub = ws.NewHub(logger)
	c.Store = store.New()
	c.Pool = worker.NewPool(cfg.Pipeline.Workers, cfg.Pipeline.QueueSize)
	c.Notifier = newNotifier(cfg.Telegram, logger)
	c.JWT = jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	opts := enrichment.Options{
		AI:            ai.NewClient(cfg.AI, logger),
		Localizations: c.Localization,
		CacheTTL:      cfg.AI.CacheTTL,
		Company:       cfg.App.CompanyName,
		Logger:        logger,
	}
	if c.Cache.Available() {
		opts.Shared = c.Cache
	}
	c.Gateway = enrichment.NewGateway(opts)
	return nil
}

func newNotifier(cfg config.TelegramConfig, logger *log.Logger) notify.Notifier {
	chain := notify.Multi{notify.Log{Logger: logger}}
	tg, err := notify.NewTelegram(cfg)
	if err != nil {
		logger.Printf("[Notify] telegram disabled err=%v", err)
		return chain
	}
	if tg != nil {
		chain = append(chain, tg)
	}
	return chain
}

// Start runs the hub and the persistence workers until Close.
func (c *Container) Start() {
	go c.Hub.Run()

	results := c.Pool.Run(context.Background())
	c.poolDone = make(chan struct{})
	go func() {
		defer close(c.poolDone)
		worker.Drain(results, func(r worker.Result) {
			if r.Err != nil {
				c.Logger.Printf("[Worker] task failed name=%s err=%v", r.Name, r.Err)
			}
		})
	}()
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Pool != nil {
		c.Pool.Close()
		if c.poolDone != nil {
			<-c.poolDone
		}
	}
	c.Hub.Stop()

	var errs []error
	if c.Users != nil {
		errs = append(errs, c.Users.Close())
	}
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
