package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"smart-hr/internal/app"
	"smart-hr/internal/config"
	"smart-hr/internal/database/migration"
	"smart-hr/internal/database/seeder"
	"smart-hr/migrations"

	"github.com/joho/godotenv"
)

func main() {
	seed := flag.Bool("seed", true, "run seeders after migrating")
	dir := flag.String("dir", "", "read migrations from this directory instead of the embedded set")
	status := flag.Bool("status", false, "list pending migrations and exit")
	only := flag.String("only", "", "comma separated seeders to run, default all")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	c, err := app.NewContainer(cfg)
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	migCtx, migCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer migCancel()

	logger := log.Default()
	r := migration.Runner{FS: migrations.Files, Logger: logger}
	if *dir != "" {
		r = migration.Runner{Dir: *dir, Logger: logger}
	}

	if *status {
		pending, err := r.Pending(migCtx, c.DB.SQLDB())
		if err != nil {
			log.Fatalf("migration status failed: %v", err)
		}
		for _, m := range pending {
			log.Printf("[Migrate] pending version=%d file=%s", m.Version, m.Filename)
		}
		log.Printf("[Migrate] pending=%d", len(pending))
		return
	}

	if err := r.Run(migCtx, c.DB.SQLDB()); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if !*seed {
		return
	}

	seedCtx, seedCancel := context.WithTimeout(context.Background(), time.Minute)
	defer seedCancel()

	sr := seeder.Runner{Seeders: seeder.Defaults(cfg.Seed, logger), Logger: logger}
	if *only != "" {
		sr.Only = strings.Split(*only, ",")
	}
	if err := sr.Run(seedCtx, c.DB); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}
