package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nostalgiabin/catalog-service/models"
	"github.com/nostalgiabin/catalog-service/pkg/catalog"
	"github.com/nostalgiabin/catalog-service/pkg/config"
	"github.com/nostalgiabin/catalog-service/pkg/logging"
	"github.com/nostalgiabin/catalog-service/pkg/storage"
)

type options struct {
	count  int
	seed   uint64
	out    string
	tables string
	now    string
}

func main() {
	var opts options
	flag.IntVar(&opts.count, "n", 10000, "number of products to generate")
	flag.Uint64Var(&opts.seed, "seed", 42, "random seed")
	flag.StringVar(&opts.out, "out", "nostalgia_bin_products.json", "output path or s3://bucket/key")
	flag.StringVar(&opts.tables, "tables", "", "optional YAML lookup tables replacing the built-in ones")
	flag.StringVar(&opts.now, "now", "", "reference time (RFC3339) for ages and date_added; defaults to the current time")
	flag.Parse()

	config.LoadEnv() // Load environment variables first
	logging.Init()
	logging.WithRun(uuid.NewString())

	if err := run(context.Background(), opts, os.Stdout, os.Stderr); err != nil {
		logging.Fatal().Err(err).Msg("Catalog generation failed")
	}
}

func run(ctx context.Context, opts options, stdout, progress io.Writer) error {
	if opts.count < 1 {
		return fmt.Errorf("-n must be positive, got %d", opts.count)
	}

	tables := catalog.DefaultTables()
	if opts.tables != "" {
		var err error
		tables, err = catalog.LoadTablesFile(opts.tables)
		if err != nil {
			return err
		}
	}

	now := time.Now()
	if opts.now != "" {
		var err error
		now, err = time.Parse(time.RFC3339, opts.now)
		if err != nil {
			return fmt.Errorf("invalid -now %q: %w", opts.now, err)
		}
	}

	store, err := storage.NewFor(ctx, os.Getenv("S3_ENDPOINT"), opts.out)
	if err != nil {
		return err
	}

	src := catalog.NewSource(opts.seed)
	gen := catalog.NewGenerator(tables, src, catalog.NewFaker(opts.seed), now)

	logging.Info().Int("count", opts.count).Uint64("seed", opts.seed).Time("now", now).Msg("Generating products")
	products := catalog.Generate(gen, opts.count, progress)

	var buf bytes.Buffer
	if err := catalog.WriteProducts(&buf, products); err != nil {
		return err
	}
	if err := store.Write(ctx, opts.out, buf.Bytes()); err != nil {
		return err
	}

	summary := catalog.Summarize(products)
	event := logging.Info().Int("total", summary.Total).Float64("mean_price", summary.MeanPrice).Str("out", opts.out)
	for _, name := range summary.Categories() {
		event = event.Int(strings.ToLower(name), summary.ByCategory[name])
	}
	event.Msg("Generated vintage products")

	sample := products[rand.New(rand.NewPCG(opts.seed, opts.seed+1)).IntN(len(products))]
	printSample(stdout, sample)
	return nil
}

// printSample writes every field but the embedding as "key: value" lines.
func printSample(w io.Writer, p models.Product) {
	fmt.Fprintln(w, "\nSample Product:")
	fields := []struct {
		key   string
		value string
	}{
		{"product_id", strconv.Itoa(p.ProductID)},
		{"name", p.Name},
		{"category", p.Category},
		{"subcategory", p.Subcategory},
		{"era", p.Era},
		{"decade", strconv.Itoa(p.Decade)},
		{"materials", strings.Join(p.Materials, ", ")},
		{"colors", strings.Join(p.Colors, ", ")},
		{"condition_rating", strconv.FormatFloat(p.ConditionRating, 'f', 1, 64)},
		{"price_dollars", strconv.FormatFloat(p.PriceDollars, 'f', -1, 64)},
		{"description", p.Description},
		{"date_added", p.DateAdded},
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%s: %s\n", f.key, f.value)
	}
}
