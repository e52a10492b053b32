package seeder

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"smart-hr/internal/database"
)

type Runner struct {
	Seeders []Seeder
	Logger  *log.Logger
	// Only restricts the run to the named seeders when non-empty.
	Only []string
}

// Run executes seeders in order and stops at the first failure. Seeders are
// idempotent, so a rerun after a fix is safe.
func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return database.ErrNilDB
	}
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}

	selected, err := r.selected()
	if err != nil {
		return err
	}
	for _, s := range selected {
		if sb, ok := s.(schemaBound); ok {
			if err := checkSchema(ctx, db, sb.Requires()); err != nil {
				return fmt.Errorf("seed %s: %w", s.Name(), err)
			}
		}
		start := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		logger.Printf("[Seeder] done name=%s elapsed=%s", s.Name(), time.Since(start).Round(time.Millisecond))
	}
	return nil
}

func (r Runner) selected() ([]Seeder, error) {
	want := make(map[string]bool, len(r.Only))
	for _, name := range r.Only {
		if name = strings.TrimSpace(name); name != "" {
			want[name] = false
		}
	}

	out := make([]Seeder, 0, len(r.Seeders))
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if len(want) > 0 {
			if _, ok := want[s.Name()]; !ok {
				continue
			}
			want[s.Name()] = true
		}
		out = append(out, s)
	}
	for name, found := range want {
		if !found {
			return nil, fmt.Errorf("unknown seeder %q", name)
		}
	}
	return out, nil
}
