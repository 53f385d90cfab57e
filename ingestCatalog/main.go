package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/nostalgiabin/catalog-service/pkg/config"
	"github.com/nostalgiabin/catalog-service/pkg/database"
	"github.com/nostalgiabin/catalog-service/pkg/embedding"
	"github.com/nostalgiabin/catalog-service/pkg/loader"
	"github.com/nostalgiabin/catalog-service/pkg/logging"
	"github.com/nostalgiabin/catalog-service/pkg/storage"
)

func main() {
	config.LoadEnv() // Load environment variables first
	logging.Init()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	s3Client, err := storage.NewS3Client(ctx, cfg.S3Endpoint)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize S3 client")
	}

	embedder, release, err := embedding.FromConfig(ctx, cfg.Embedding)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize embedder")
	}
	defer release()

	store, err := database.Open(ctx, cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("Failed to initialize store")
	}
	defer store.Close()

	h := &ingestHandler{
		files:  storage.New(s3Client),
		loader: loader.New(store, embedder, nil),
	}
	lambda.Start(h.handle)
}
