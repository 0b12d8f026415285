package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ErlanBelekov/student-gifts/internal/metrics"
	"github.com/ErlanBelekov/student-gifts/internal/repository"
)

type Seeder struct {
	gifts  repository.GiftRepository
	gen    *Generator
	logger *slog.Logger
}

func NewSeeder(gifts repository.GiftRepository, gen *Generator, logger *slog.Logger) *Seeder {
	return &Seeder{gifts: gifts, gen: gen, logger: logger.With("component", "seed")}
}

// Seed inserts a freshly generated catalog and returns the number of rows.
func (s *Seeder) Seed(ctx context.Context) (int64, error) {
	gifts := s.gen.Gifts()
	n, err := s.gifts.CreateMany(ctx, gifts)
	if err != nil {
		return 0, fmt.Errorf("seed gifts: %w", err)
	}
	metrics.GiftsSeededTotal.Add(float64(n))
	s.logger.InfoContext(ctx, "gifts seeded", "count", n)
	return n, nil
}

// SeedIfEmpty seeds only when the catalog has no gifts yet.
func (s *Seeder) SeedIfEmpty(ctx context.Context) (int64, error) {
	count, err := s.gifts.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count gifts: %w", err)
	}
	if count > 0 {
		s.logger.DebugContext(ctx, "catalog already seeded", "count", count)
		return 0, nil
	}
	return s.Seed(ctx)
}
