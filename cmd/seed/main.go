// seed fills the gift catalog with generated offers.
// Run: go run ./cmd/seed [-force] [-seed N]
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ErlanBelekov/student-gifts/config"
	"github.com/ErlanBelekov/student-gifts/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/student-gifts/internal/log"
	"github.com/ErlanBelekov/student-gifts/internal/seed"
)

func main() {
	force := flag.Bool("force", false, "insert gifts even if the catalog is not empty")
	seedValue := flag.Uint64("seed", 0, "random seed, 0 for a random catalog")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := ctxlog.New(cfg.Env, cfg.SlogLevel(), os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	seeder := seed.NewSeeder(postgres.NewGiftRepository(pool), seed.NewGenerator(*seedValue), logger)

	var n int64
	if *force {
		n, err = seeder.Seed(ctx)
	} else {
		n, err = seeder.SeedIfEmpty(ctx)
	}
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	if n == 0 {
		logger.Info("catalog already has gifts, nothing to do (use -force to add more)")
		return
	}
	logger.Info("seeding completed", "gifts", n)
}
