package loader

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/nostalgiabin/catalog-service/models"
	"github.com/nostalgiabin/catalog-service/pkg/database"
	"github.com/nostalgiabin/catalog-service/pkg/embedding"
	"github.com/nostalgiabin/catalog-service/pkg/logging"
)

// Prepare turns catalog records into store rows by parsing date_added.
func Prepare(products []models.Product) ([]models.StoredProduct, error) {
	stored := make([]models.StoredProduct, len(products))
	for i, p := range products {
		addedAt, err := time.Parse(models.DateAddedLayout, p.DateAdded)
		if err != nil {
			return nil, fmt.Errorf("product %d: invalid date_added %q: %w", p.ProductID, p.DateAdded, err)
		}
		stored[i] = models.StoredProduct{Product: p, AddedAt: addedAt}
	}
	return stored, nil
}

// Enrich replaces every placeholder embedding with the embedding of the
// product's description. Calls are made one at a time, in order; the first
// failure aborts.
func Enrich(ctx context.Context, stored []models.StoredProduct, embedder embedding.Embedder, progress io.Writer) error {
	bar := progressbar.NewOptions(len(stored),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("Embedding descriptions"),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(progress) }),
	)

	for i := range stored {
		vec, err := embedder.Embed(ctx, stored[i].Description)
		if err != nil {
			return fmt.Errorf("failed to embed product %d: %w", stored[i].ProductID, err)
		}
		stored[i].Embedding = vec
		_ = bar.Add(1)
	}
	return nil
}

// Loader moves a generated catalog into a store.
type Loader struct {
	store    database.Store
	embedder embedding.Embedder
	progress io.Writer
}

// New returns a Loader. Enrichment progress is drawn to progress.
func New(store database.Store, embedder embedding.Embedder, progress io.Writer) *Loader {
	if progress == nil {
		progress = io.Discard
	}
	return &Loader{store: store, embedder: embedder, progress: progress}
}

// Run loads the products and then indexes the embeddings.
func (l *Loader) Run(ctx context.Context, products []models.Product) ([]models.StoredProduct, error) {
	stored, err := l.Load(ctx, products)
	if err != nil {
		return nil, err
	}
	if err := l.Index(ctx); err != nil {
		return nil, err
	}
	return stored, nil
}

// Load prepares and enriches the products, creates the table and inserts
// every row in one bulk insert.
func (l *Loader) Load(ctx context.Context, products []models.Product) ([]models.StoredProduct, error) {
	logging.Info().Int("products", len(products)).Msg("Converting dates")
	stored, err := Prepare(products)
	if err != nil {
		return nil, err
	}

	logging.Info().Msg("Generating embeddings for product descriptions")
	if err := Enrich(ctx, stored, l.embedder, l.progress); err != nil {
		return nil, err
	}

	if err := l.store.EnsureTable(ctx); err != nil {
		return nil, err
	}

	logging.Info().Msg("Inserting products")
	if err := l.store.InsertProducts(ctx, stored); err != nil {
		return nil, err
	}
	logging.Info().Int("products", len(stored)).Msg("Successfully inserted products")
	return stored, nil
}

// Index creates the vector index over the embedding column. Stores skip it
// when the index already exists.
func (l *Loader) Index(ctx context.Context) error {
	if err := l.store.CreateVectorIndex(ctx); err != nil {
		return err
	}
	logging.Info().Msg("Vector index created")
	return nil
}
