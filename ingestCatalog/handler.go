package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/aws/aws-lambda-go/events"

	"github.com/nostalgiabin/catalog-service/models"
	"github.com/nostalgiabin/catalog-service/pkg/catalog"
	"github.com/nostalgiabin/catalog-service/pkg/logging"
)

// CatalogEvent is either an S3 notification for an uploaded catalog file or
// a direct invocation carrying the catalog inline.
type CatalogEvent struct {
	Records []events.S3EventRecord `json:"Records,omitempty"`
	Catalog json.RawMessage        `json:"catalog,omitempty"` // For local testing
}

type objectReader interface {
	Read(ctx context.Context, uri string) ([]byte, error)
}

type catalogLoader interface {
	Load(ctx context.Context, products []models.Product) ([]models.StoredProduct, error)
	Index(ctx context.Context) error
}

type ingestHandler struct {
	files  objectReader
	loader catalogLoader
}

// handle loads every catalog in the event, then creates the vector index once.
// Embedding runs one description at a time, so a single invocation only fits
// a catalog the function timeout allows (roughly a few thousand records at
// 15 minutes against a cold cache); larger catalogs go through loadCatalog.
func (h *ingestHandler) handle(ctx context.Context, event CatalogEvent) error {
	if err := h.ingest(ctx, event); err != nil {
		logging.Error().Err(err).Msg("Catalog ingest failed")
		return err
	}
	return nil
}

func (h *ingestHandler) ingest(ctx context.Context, event CatalogEvent) error {
	switch {
	case len(event.Records) > 0:
		for _, record := range event.Records {
			uri, err := objectURI(record.S3)
			if err != nil {
				return err
			}
			logging.Info().Str("uri", uri).Msg("Processing S3 event")

			data, err := h.files.Read(ctx, uri)
			if err != nil {
				return err
			}
			if err := h.load(ctx, data); err != nil {
				return fmt.Errorf("%s: %w", uri, err)
			}
		}
	case len(event.Catalog) > 0:
		logging.Info().Msg("Processing direct catalog payload")
		if err := h.load(ctx, event.Catalog); err != nil {
			return err
		}
	default:
		return fmt.Errorf("no S3 event record or direct catalog found in the payload")
	}
	return h.loader.Index(ctx)
}

func (h *ingestHandler) load(ctx context.Context, data []byte) error {
	products, err := catalog.ReadProducts(bytes.NewReader(data))
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return fmt.Errorf("catalog is empty")
	}

	stored, err := h.loader.Load(ctx, products)
	if err != nil {
		return err
	}
	logging.Info().Int("products", len(stored)).Msg("Catalog loaded")
	return nil
}

// objectURI builds the s3:// location of a notification. S3 event keys are
// URL-encoded.
func objectURI(entity events.S3Entity) (string, error) {
	key, err := url.QueryUnescape(entity.Object.Key)
	if err != nil {
		return "", fmt.Errorf("invalid object key %q: %w", entity.Object.Key, err)
	}
	return fmt.Sprintf("s3://%s/%s", entity.Bucket.Name, key), nil
}
