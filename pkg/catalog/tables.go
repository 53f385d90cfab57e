package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrInvalidTables is returned when a lookup-table document fails validation.
var ErrInvalidTables = errors.New("invalid lookup tables")

//go:embed tables.yaml
var defaultTablesYAML []byte

// PriceRange is the uniform base-price range of a category.
type PriceRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Category lists what may be drawn for products of one category.
type Category struct {
	Name          string     `yaml:"name"`
	Subcategories []string   `yaml:"subcategories"`
	Materials     []string   `yaml:"materials"`
	Price         PriceRange `yaml:"price"`
}

// Era is a named design period and the decades it spans.
type Era struct {
	Name    string `yaml:"name"`
	Decades []int  `yaml:"decades"`
}

// Decade carries the design styles and cultural references of one decade.
type Decade struct {
	Decade       int      `yaml:"decade"`
	Styles       []string `yaml:"styles"`
	CulturalRefs []string `yaml:"cultural_refs"`
}

// Condition is one step of the condition scale.
type Condition struct {
	Rating      float64 `yaml:"rating"`
	Weight      float64 `yaml:"weight"`
	Description string  `yaml:"description"`
}

// Tables are the immutable lookup tables the generator samples from.
type Tables struct {
	Categories []Category  `yaml:"categories"`
	Eras       []Era       `yaml:"eras"`
	Colors     []string    `yaml:"colors"`
	Decades    []Decade    `yaml:"decades"`
	Conditions []Condition `yaml:"conditions"`

	categoryIndex map[string]int
	decadeIndex   map[int]int
	conditions    *WeightedSampler
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// DefaultTables returns the embedded lookup tables. It panics if the embedded
// document is malformed, which can only happen at build time.
func DefaultTables() *Tables {
	defaultOnce.Do(func() {
		t, err := parseTables(defaultTablesYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded tables: %v", err))
		}
		defaultTables = t
	})
	return defaultTables
}

// LoadTables parses and validates a lookup-table document.
func LoadTables(r io.Reader) (*Tables, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables: %w", err)
	}
	return parseTables(data)
}

// LoadTablesFile is LoadTables over a file path.
func LoadTablesFile(path string) (*Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tables file: %w", err)
	}
	defer f.Close()
	return LoadTables(f)
}

func parseTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTables, err)
	}
	if err := t.index(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Tables) index() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidTables, fmt.Sprintf(format, args...))
	}

	if len(t.Categories) == 0 {
		return invalid("no categories")
	}
	if len(t.Eras) == 0 {
		return invalid("no eras")
	}
	if len(t.Colors) == 0 {
		return invalid("no colors")
	}

	t.categoryIndex = make(map[string]int, len(t.Categories))
	for i, c := range t.Categories {
		if c.Name == "" {
			return invalid("category %d has no name", i)
		}
		if _, dup := t.categoryIndex[c.Name]; dup {
			return invalid("duplicate category %q", c.Name)
		}
		if len(c.Subcategories) == 0 || len(c.Materials) == 0 {
			return invalid("category %q needs subcategories and materials", c.Name)
		}
		if c.Price.Min < 0 || c.Price.Min > c.Price.Max {
			return invalid("category %q has price range [%g, %g]", c.Name, c.Price.Min, c.Price.Max)
		}
		t.categoryIndex[c.Name] = i
	}

	t.decadeIndex = make(map[int]int, len(t.Decades))
	for i, d := range t.Decades {
		if len(d.Styles) == 0 || len(d.CulturalRefs) == 0 {
			return invalid("decade %d needs styles and cultural references", d.Decade)
		}
		t.decadeIndex[d.Decade] = i
	}

	for _, e := range t.Eras {
		if len(e.Decades) == 0 {
			return invalid("era %q has no decades", e.Name)
		}
		for _, d := range e.Decades {
			if _, ok := t.decadeIndex[d]; !ok {
				return invalid("era %q references decade %d with no styles", e.Name, d)
			}
		}
	}

	ratings := make([]float64, len(t.Conditions))
	weights := make([]float64, len(t.Conditions))
	seen := make(map[float64]bool, len(t.Conditions))
	for i, c := range t.Conditions {
		if !onConditionScale(c.Rating) {
			return invalid("condition rating %g is not on the 1.0-5.0 half-point scale", c.Rating)
		}
		if strings.TrimSpace(c.Description) == "" {
			return invalid("condition rating %g has no description", c.Rating)
		}
		if seen[c.Rating] {
			return invalid("duplicate condition rating %g", c.Rating)
		}
		seen[c.Rating] = true
		ratings[i] = c.Rating
		weights[i] = c.Weight
	}
	sampler, err := NewWeightedSampler(ratings, weights)
	if err != nil {
		return invalid("conditions: %v", err)
	}
	t.conditions = sampler

	return nil
}

// onConditionScale reports whether rating is one of 1.0, 1.5, ..., 5.0.
func onConditionScale(rating float64) bool {
	return rating >= 1 && rating <= 5 && rating*2 == math.Trunc(rating*2)
}

// Category returns the named category.
func (t *Tables) Category(name string) (Category, bool) {
	i, ok := t.categoryIndex[name]
	if !ok {
		return Category{}, false
	}
	return t.Categories[i], true
}

// CategoryNames lists the categories in table order.
func (t *Tables) CategoryNames() []string {
	names := make([]string, len(t.Categories))
	for i, c := range t.Categories {
		names[i] = c.Name
	}
	return names
}

// Decade returns the styles and cultural references of a decade.
func (t *Tables) Decade(decade int) (Decade, bool) {
	i, ok := t.decadeIndex[decade]
	if !ok {
		return Decade{}, false
	}
	return t.Decades[i], true
}

// ConditionDescription is the fixed sentence for a condition rating.
func (t *Tables) ConditionDescription(rating float64) string {
	for _, c := range t.Conditions {
		if c.Rating == rating {
			return c.Description
		}
	}
	return ""
}

// Ratings lists the condition scale in table order.
func (t *Tables) Ratings() []float64 {
	ratings := make([]float64, len(t.Conditions))
	for i, c := range t.Conditions {
		ratings[i] = c.Rating
	}
	return ratings
}
