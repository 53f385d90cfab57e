package catalog

import (
	"math"
	"time"

	"github.com/nostalgiabin/catalog-service/models"
)

const (
	// PlaceholderDimensions is the size of the mock embedding.
	PlaceholderDimensions = 384
	placeholderStdDev     = 0.1

	maxDaysAgo = 3 * 365
)

// Generator produces one independent product record per call.
type Generator struct {
	tables *Tables
	src    Source
	faker  Faker
	now    time.Time
}

// NewGenerator builds a generator. now anchors date_added and the age of
// each decade; pass a fixed time for reproducible output.
func NewGenerator(tables *Tables, src Source, faker Faker, now time.Time) *Generator {
	return &Generator{
		tables: tables,
		src:    src,
		faker:  faker,
		now:    now,
	}
}

// Record generates a fully populated product. ProductID is left zero for the
// batch to assign.
func (g *Generator) Record() models.Product {
	category := choice(g.src, g.tables.Categories)
	subcategory := choice(g.src, category.Subcategories)

	era, decade := g.era()

	materials := sample(g.src, category.Materials, intBetween(g.src, 1, 3))
	colors := sample(g.src, g.tables.Colors, intBetween(g.src, 1, 3))
	condition := g.tables.conditions.Sample(g.src)
	price := Price(g.src, category, condition, decade.Decade, g.now.Year())

	name := g.name(subcategory, era.Name, decade, materials)
	description := g.description(&draft{
		category:    category.Name,
		subcategory: subcategory,
		era:         era.Name,
		decade:      decade,
		materials:   materials,
		colors:      colors,
		condition:   condition,
	})

	embedding := PlaceholderEmbedding(g.src, PlaceholderDimensions)

	daysAgo := intBetween(g.src, 0, maxDaysAgo)
	added := g.now.AddDate(0, 0, -daysAgo)

	return models.Product{
		Name:            name,
		Category:        category.Name,
		Subcategory:     subcategory,
		Era:             era.Name,
		Decade:          decade.Decade,
		Materials:       materials,
		Colors:          colors,
		ConditionRating: condition,
		PriceDollars:    price,
		Description:     description,
		Embedding:       embedding,
		DateAdded:       added.Format(models.DateAddedLayout),
	}
}

// era picks an era uniformly, then one of its decades uniformly.
func (g *Generator) era() (Era, Decade) {
	era := choice(g.src, g.tables.Eras)
	decade, _ := g.tables.Decade(choice(g.src, era.Decades))
	return era, decade
}

// PlaceholderEmbedding samples dims values from N(0, 0.1) and scales them to
// unit length.
func PlaceholderEmbedding(src Source, dims int) []float32 {
	raw := make([]float64, dims)
	var norm float64
	for i := range raw {
		raw[i] = src.NormFloat64() * placeholderStdDev
		norm += raw[i] * raw[i]
	}
	norm = math.Sqrt(norm)

	vec := make([]float32, dims)
	for i, v := range raw {
		if norm > 0 {
			v /= norm
		}
		vec[i] = float32(v)
	}
	return vec
}
