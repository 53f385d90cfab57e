package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/nostalgiabin/catalog-service/models"
)

const progressThrottle = 100 * time.Millisecond

// Generate runs the generator n times and numbers the records 1..n.
// Progress is drawn to the given writer.
func Generate(gen *Generator, n int, progress io.Writer) []models.Product {
	bar := progressbar.NewOptions(n,
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("Generating products"),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(progressThrottle),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(progress) }),
	)

	products := make([]models.Product, 0, n)
	for i := 0; i < n; i++ {
		p := gen.Record()
		p.ProductID = i + 1
		products = append(products, p)
		_ = bar.Add(1)
	}
	return products
}

// WriteProducts serializes the catalog as a two-space indented JSON array.
func WriteProducts(w io.Writer, products []models.Product) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(products); err != nil {
		return fmt.Errorf("failed to encode products: %w", err)
	}
	return nil
}

// ReadProducts decodes a catalog written by WriteProducts.
func ReadProducts(r io.Reader) ([]models.Product, error) {
	var products []models.Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// Summary is a per-category count and the mean price of a catalog.
type Summary struct {
	Total      int
	ByCategory map[string]int
	MeanPrice  float64
}

// Summarize counts a catalog.
func Summarize(products []models.Product) Summary {
	s := Summary{Total: len(products), ByCategory: make(map[string]int)}
	if len(products) == 0 {
		return s
	}
	var sum float64
	for _, p := range products {
		s.ByCategory[p.Category]++
		sum += p.PriceDollars
	}
	s.MeanPrice = sum / float64(len(products))
	return s
}

// Categories returns the summary's category names sorted.
func (s Summary) Categories() []string {
	names := make([]string, 0, len(s.ByCategory))
	for name := range s.ByCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
