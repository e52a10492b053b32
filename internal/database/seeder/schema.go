package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smart-hr/internal/database"
)

// Requirement names the columns a seeder writes. The runner checks them
// before the seeder runs so a stale schema fails with a readable message
// instead of a driver error halfway through an insert.
type Requirement struct {
	Table   string
	Columns []string
}

// schemaBound is implemented by seeders that declare their Requirements.
type schemaBound interface {
	Requires() []Requirement
}

func checkSchema(ctx context.Context, q database.Querier, reqs []Requirement) error {
	var errs []error
	for _, req := range reqs {
		if strings.TrimSpace(req.Table) == "" {
			return errors.New("requirement without table")
		}
		existing, err := tableColumns(ctx, q, req.Table)
		if err != nil {
			return fmt.Errorf("inspect %s: %w", req.Table, err)
		}
		if missing := missingColumns(existing, req); len(missing) > 0 {
			errs = append(errs, fmt.Errorf("table %s is missing columns %s (run migrations first)", req.Table, strings.Join(missing, ", ")))
		}
	}
	return errors.Join(errs...)
}

func tableColumns(ctx context.Context, q database.Querier, table string) (map[string]struct{}, error) {
	rows, err := q.Query(
		ctx,
		`SELECT column_name FROM information_schema.columns
		 WHERE table_schema = current_schema() AND table_name = $1`,
		table,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols[name] = struct{}{}
	}
	return cols, rows.Err()
}

func missingColumns(existing map[string]struct{}, req Requirement) []string {
	var missing []string
	for _, col := range req.Columns {
		if _, ok := existing[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}
