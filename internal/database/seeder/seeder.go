package seeder

import (
	"context"

	"talent-match/internal/database"
)

// Seeder inserts one group of reference or sample rows. Seeders must be idempotent.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
