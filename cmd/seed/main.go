// Command seed populates the catalog store from a JSON fixture file.
// Re-running against a populated store is safe: existing entities are looked
// up by name and left untouched.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopfable/catalog/internal/config"
	"github.com/shopfable/catalog/internal/repository"
	"github.com/shopfable/catalog/internal/repository/memory"
	pgrepo "github.com/shopfable/catalog/internal/repository/postgres"
	"github.com/shopfable/catalog/internal/seed"
	"github.com/shopfable/catalog/migrations"
	"github.com/shopfable/catalog/pkg/database"
	"github.com/shopfable/catalog/pkg/logger"
)

func main() {
	var file string
	flag.StringVar(&file, "file", "seed.json", "path to the seed fixture file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("catalog-seed", cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fixture, err := seed.LoadFile(file)
	if err != nil {
		log.Error("failed to load seed file", slog.String("file", file), slog.String("error", err.Error()))
		os.Exit(1)
	}

	var (
		productRepo  repository.ProductRepository
		categoryRepo repository.CategoryRepository
		tagRepo      repository.TagRepository
	)
	if cfg.StoreBackend == "memory" {
		// Seeding an in-memory store only makes sense for smoke-testing the
		// fixture; the data is gone when the process exits.
		store := memory.NewStore()
		productRepo = store.Products()
		categoryRepo = store.Categories()
		tagRepo = store.Tags()
	} else {
		pgCfg := cfg.Postgres()
		pool, err := database.NewPostgresPool(ctx, &pgCfg, log)
		if err != nil {
			log.Error("failed to connect to postgres", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()

		if err := database.RunMigrations(ctx, pool, migrations.Files, log); err != nil {
			log.Error("failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}

		productRepo = pgrepo.NewProductRepository(pool)
		categoryRepo = pgrepo.NewCategoryRepository(pool)
		tagRepo = pgrepo.NewTagRepository(pool)
	}

	seeder := seed.New(productRepo, categoryRepo, tagRepo, log)
	summary, err := seeder.Apply(ctx, fixture)
	if err != nil {
		log.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("seeding complete",
		slog.Int("categories_created", summary.CategoriesCreated),
		slog.Int("tags_created", summary.TagsCreated),
		slog.Int("products_created", summary.ProductsCreated),
		slog.Int("products_skipped", summary.Skipped),
	)
}
