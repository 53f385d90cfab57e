package main

import (
	"bytes"
	"context"
	"flag"
	"os"

	"github.com/google/uuid"

	"github.com/nostalgiabin/catalog-service/pkg/catalog"
	"github.com/nostalgiabin/catalog-service/pkg/config"
	"github.com/nostalgiabin/catalog-service/pkg/database"
	"github.com/nostalgiabin/catalog-service/pkg/embedding"
	"github.com/nostalgiabin/catalog-service/pkg/loader"
	"github.com/nostalgiabin/catalog-service/pkg/logging"
	"github.com/nostalgiabin/catalog-service/pkg/storage"
)

func main() {
	in := flag.String("in", "nostalgia_bin_products.json", "catalog path or s3://bucket/key")
	examples := flag.Bool("examples", true, "run the example similarity queries after loading")
	flag.Parse()

	config.LoadEnv() // Load environment variables first
	logging.Init()
	logging.WithRun(uuid.NewString())

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	files, err := storage.NewFor(ctx, cfg.S3Endpoint, *in)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	data, err := files.Read(ctx, *in)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to read catalog")
	}
	products, err := catalog.ReadProducts(bytes.NewReader(data))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to parse catalog")
	}
	logging.Info().Int("products", len(products)).Str("in", *in).Msg("Loaded catalog")

	embedder, release, err := embedding.FromConfig(ctx, cfg.Embedding)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize embedder")
	}
	defer release()

	store, err := database.Open(ctx, cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("Failed to connect to store")
	}
	defer store.Close()

	if _, err := loader.New(store, embedder, os.Stderr).Run(ctx, products); err != nil {
		logging.Fatal().Err(err).Msg("Catalog load failed")
	}

	if *examples {
		if err := loader.RunExamples(ctx, loader.NewSearcher(store, embedder), loader.Examples, os.Stdout); err != nil {
			logging.Fatal().Err(err).Msg("Example queries failed")
		}
	}
}
