package seeder

import (
	"context"

	"smart-hr/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
