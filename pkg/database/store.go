package database

import (
	"context"
	"fmt"
	"regexp"

	"github.com/nostalgiabin/catalog-service/models"
	"github.com/nostalgiabin/catalog-service/pkg/config"
)

// Store is the external store the catalog is loaded into and searched in.
type Store interface {
	// EnsureTable creates the catalog table if it does not exist.
	EnsureTable(ctx context.Context) error
	// InsertProducts writes every product in one bulk insert.
	InsertProducts(ctx context.Context, products []models.StoredProduct) error
	// CreateVectorIndex indexes the embedding column for nearest-neighbor lookups.
	CreateVectorIndex(ctx context.Context) error
	// SimilaritySearch runs a nearest-neighbor query.
	SimilaritySearch(ctx context.Context, q SimilarityQuery) ([]models.SearchResult, error)
	Close() error
}

// Columns is the insert column order shared by every store.
var Columns = []string{
	"product_id", "name", "category", "subcategory", "era",
	"decade", "materials", "colors", "condition_rating",
	"price_dollars", "description", "embedding", "date_added",
}

// resultColumns is the fixed projection of a similarity query.
var resultColumns = []string{
	"product_id", "name", "category", "subcategory", "era", "decade",
	"materials", "colors", "condition_rating", "price_dollars", "description",
}

// Open connects to the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverClickHouse:
		return NewClickHouseStore(ctx, cfg.ClickHouse, cfg.Table)
	case config.DriverPostgres:
		return NewPostgresStore(ctx, cfg.Postgres, cfg.Table, cfg.Dimensions)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validIdentifier guards table names interpolated into DDL and queries.
func validIdentifier(name string) error {
	if !identifier.MatchString(name) {
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}
