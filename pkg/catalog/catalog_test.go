package catalog

import (
	"bytes"
	"math"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nostalgiabin/catalog-service/models"
)

var fixedNow = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

// fixedSource returns the same uniform draw every time and lets the test
// decide integer draws.
type fixedSource struct {
	f    float64
	intN func(n int) int
}

func (s *fixedSource) Float64() float64     { return s.f }
func (s *fixedSource) NormFloat64() float64 { return 1 }
func (s *fixedSource) Shuffle(int, func(i, j int)) {}
func (s *fixedSource) IntN(n int) int {
	if s.intN == nil {
		return 0
	}
	return s.intN(n)
}

type stubFaker struct{}

func (stubFaker) FirstName() string { return "Greta" }
func (stubFaker) LastName() string  { return "Magnusson" }

func eraNamed(tables *Tables, name string) (Era, bool) {
	for _, e := range tables.Eras {
		if e.Name == name {
			return e, true
		}
	}
	return Era{}, false
}

func newSeededGenerator(seed uint64) *Generator {
	return NewGenerator(DefaultTables(), NewSource(seed), NewFaker(seed), fixedNow)
}

func TestDefaultTablesLoad(t *testing.T) {
	tables := DefaultTables()

	assert.Equal(t, []string{"Furniture", "Electronics", "Media", "Fashion", "Home Decor", "Collectibles"}, tables.CategoryNames())
	assert.Len(t, tables.Eras, 13)
	assert.Len(t, tables.Colors, 30)
	assert.Equal(t, []float64{1.0, 1.5, 2.0, 2.5, 3.0, 3.5, 4.0, 4.5, 5.0}, tables.Ratings())

	era, ok := eraNamed(tables, "Mid-Century Modern")
	require.True(t, ok)
	assert.Equal(t, []int{1940, 1950, 1960}, era.Decades)
}

func TestLoadTablesRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"no categories": `eras: [{name: A, decades: [1900]}]
colors: [Red]
decades: [{decade: 1900, styles: [x], cultural_refs: [y]}]
conditions: [{rating: 1.0, weight: 1, description: Worn.}]`,
		"era without decade styles": `categories: [{name: C, subcategories: [s], materials: [m], price: {min: 1, max: 2}}]
eras: [{name: A, decades: [1950]}]
colors: [Red]
decades: [{decade: 1900, styles: [x], cultural_refs: [y]}]
conditions: [{rating: 1.0, weight: 1, description: Worn.}]`,
		"inverted price range": `categories: [{name: C, subcategories: [s], materials: [m], price: {min: 5, max: 2}}]
eras: [{name: A, decades: [1900]}]
colors: [Red]
decades: [{decade: 1900, styles: [x], cultural_refs: [y]}]
conditions: [{rating: 1.0, weight: 1, description: Worn.}]`,
		"zero condition weights": `categories: [{name: C, subcategories: [s], materials: [m], price: {min: 1, max: 2}}]
eras: [{name: A, decades: [1900]}]
colors: [Red]
decades: [{decade: 1900, styles: [x], cultural_refs: [y]}]
conditions: [{rating: 1.0, weight: 0, description: Worn.}]`,
		"rating off the scale": `categories: [{name: C, subcategories: [s], materials: [m], price: {min: 1, max: 2}}]
eras: [{name: A, decades: [1900]}]
colors: [Red]
decades: [{decade: 1900, styles: [x], cultural_refs: [y]}]
conditions: [{rating: 7.25, weight: 1, description: Fine.}]`,
		"rating between half points": `categories: [{name: C, subcategories: [s], materials: [m], price: {min: 1, max: 2}}]
eras: [{name: A, decades: [1900]}]
colors: [Red]
decades: [{decade: 1900, styles: [x], cultural_refs: [y]}]
conditions: [{rating: 2.25, weight: 1, description: Fine.}]`,
		"condition without description": `categories: [{name: C, subcategories: [s], materials: [m], price: {min: 1, max: 2}}]
eras: [{name: A, decades: [1900]}]
colors: [Red]
decades: [{decade: 1900, styles: [x], cultural_refs: [y]}]
conditions: [{rating: 3.0, weight: 1}]`,
		"not yaml": `categories: [`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadTables(strings.NewReader(doc))
			assert.ErrorIs(t, err, ErrInvalidTables)
		})
	}
}

func TestLoadTablesAcceptsMinimalDocument(t *testing.T) {
	tables, err := LoadTables(strings.NewReader(`categories: [{name: C, subcategories: [s], materials: [m], price: {min: 1, max: 2}}]
eras: [{name: A, decades: [1900]}]
colors: [Red]
decades: [{decade: 1900, styles: [x], cultural_refs: [y]}]
conditions: [{rating: 1.0, weight: 1, description: Worn.}, {rating: 4.5, weight: 2, description: Near mint.}]`))
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0, 4.5}, tables.Ratings())
	assert.Equal(t, "Near mint.", tables.ConditionDescription(4.5))
}

func TestConditionDistribution(t *testing.T) {
	tables := DefaultTables()
	src := NewSource(7)

	const draws = 100000
	counts := make(map[float64]int)
	for i := 0; i < draws; i++ {
		counts[tables.conditions.Sample(src)]++
	}

	for i, c := range tables.Conditions {
		got := float64(counts[c.Rating]) / draws
		assert.InDelta(t, tables.conditions.Probability(i), got, 0.01, "rating %.1f", c.Rating)
	}
}

func TestWeightedSamplerEdges(t *testing.T) {
	s, err := NewWeightedSampler([]float64{1, 2, 3}, []float64{1, 0, 1})
	require.NoError(t, err)

	assert.Equal(t, 1.0, s.Sample(&fixedSource{f: 0}))
	assert.Equal(t, 3.0, s.Sample(&fixedSource{f: 0.5}), "zero weight is never drawn")
	assert.Equal(t, 3.0, s.Sample(&fixedSource{f: 1}), "fall-through returns the last value")

	_, err = NewWeightedSampler([]float64{1}, []float64{1, 2})
	assert.Error(t, err)
	_, err = NewWeightedSampler([]float64{1}, []float64{-1})
	assert.Error(t, err)
	_, err = NewWeightedSampler(nil, nil)
	assert.Error(t, err)
}

func TestSampleClampsAndStaysDistinct(t *testing.T) {
	src := NewSource(3)
	items := []string{"Teak", "Oak"}

	for i := 0; i < 50; i++ {
		got := sample(src, items, 3)
		require.Len(t, got, 2)
		assert.ElementsMatch(t, items, got)
	}
}

func TestPriceAtMidpoints(t *testing.T) {
	furniture, ok := DefaultTables().Category("Furniture")
	require.True(t, ok)

	// base 1025 × condition 1.3 × age 1.2 (age 65) × uniqueness 1.15 = 1838.85
	got := Price(&fixedSource{f: 0.5}, furniture, 4.0, 1960, 2025)
	assert.Equal(t, 1840.0, got)

	media, ok := DefaultTables().Category("Media")
	require.True(t, ok)

	// base 5 × condition 0.7 × age 0.7 (age 25) × uniqueness 0.8 = 1.96
	got = Price(&fixedSource{f: 0}, media, 1.0, 2000, 2025)
	assert.Equal(t, 2.0, got)
}

func TestAgeMultiplierBrackets(t *testing.T) {
	cases := []struct {
		decade int
		lo, hi float64
	}{
		{decade: 1900, lo: 1.5, hi: 3.0}, // 125
		{decade: 1924, lo: 1.5, hi: 3.0}, // 101
		{decade: 1925, lo: 1.2, hi: 2.0}, // 100
		{decade: 1954, lo: 1.2, hi: 2.0}, // 71
		{decade: 1955, lo: 0.9, hi: 1.5}, // 70
		{decade: 1984, lo: 0.9, hi: 1.5}, // 41
		{decade: 1985, lo: 0.7, hi: 1.2}, // 40
		{decade: 2000, lo: 0.7, hi: 1.2},
	}
	for _, c := range cases {
		lo, hi := AgeMultiplierRange(c.decade, 2025)
		assert.Equal(t, c.lo, lo, "decade %d", c.decade)
		assert.Equal(t, c.hi, hi, "decade %d", c.decade)
	}
}

func TestRoundPrice(t *testing.T) {
	assert.Equal(t, 120.0, RoundPrice(125))
	assert.Equal(t, 1230.0, RoundPrice(1234.5))
	assert.Equal(t, 100.0, RoundPrice(100.01))
	assert.Equal(t, 100.0, RoundPrice(100))
	assert.Equal(t, 12.3, RoundPrice(12.34))
	assert.Equal(t, 100.0, RoundPrice(99.96))
}

func TestGeneratedRecordsAreWellFormed(t *testing.T) {
	tables := DefaultTables()
	products := Generate(newSeededGenerator(42), 2000, &bytes.Buffer{})
	require.Len(t, products, 2000)

	ratings := tables.Ratings()
	earliest := fixedNow.AddDate(0, 0, -maxDaysAgo)

	for i, p := range products {
		assert.Equal(t, i+1, p.ProductID)

		category, ok := tables.Category(p.Category)
		require.True(t, ok, p.Category)
		assert.Contains(t, category.Subcategories, p.Subcategory)

		era, ok := eraNamed(tables, p.Era)
		require.True(t, ok, p.Era)
		assert.Contains(t, era.Decades, p.Decade)

		assertDistinctSubset(t, p.Materials, category.Materials)
		assertDistinctSubset(t, p.Colors, tables.Colors)

		assert.Contains(t, ratings, p.ConditionRating)
		assert.Greater(t, p.PriceDollars, 0.0)
		if p.PriceDollars > 100 {
			assert.Zero(t, math.Mod(p.PriceDollars, 10), "price %v", p.PriceDollars)
		}

		added, err := time.Parse(models.DateAddedLayout, p.DateAdded)
		require.NoError(t, err)
		assert.False(t, added.Before(earliest.Truncate(time.Second)))
		assert.False(t, added.After(fixedNow))

		require.Len(t, p.Embedding, PlaceholderDimensions)
		var norm float64
		for _, v := range p.Embedding {
			norm += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, norm, 1e-4)

		assert.GreaterOrEqual(t, len(strings.Split(p.Description, ". ")), 3)
	}
}

func assertDistinctSubset(t *testing.T, got, universe []string) {
	t.Helper()
	assert.GreaterOrEqual(t, len(got), 1)
	assert.LessOrEqual(t, len(got), 3)
	seen := make(map[string]bool)
	for _, v := range got {
		assert.False(t, seen[v], "duplicate %q in %v", v, got)
		seen[v] = true
		assert.Contains(t, universe, v)
	}
}

func TestSameSeedSameBytes(t *testing.T) {
	render := func() []byte {
		var buf bytes.Buffer
		products := Generate(newSeededGenerator(42), 5, &bytes.Buffer{})
		require.NoError(t, WriteProducts(&buf, products))
		return buf.Bytes()
	}

	first := render()
	assert.Equal(t, first, render())
	assert.True(t, bytes.HasPrefix(first, []byte("[\n  {\n    \"product_id\": 1,")))

	products, err := ReadProducts(bytes.NewReader(first))
	require.NoError(t, err)
	require.Len(t, products, 5)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, []int{
		products[0].ProductID, products[1].ProductID, products[2].ProductID,
		products[3].ProductID, products[4].ProductID,
	})
}

func TestSeedZeroIsReproducible(t *testing.T) {
	render := func() []byte {
		var buf bytes.Buffer
		require.NoError(t, WriteProducts(&buf, Generate(newSeededGenerator(0), 50, &bytes.Buffer{})))
		return buf.Bytes()
	}
	assert.Equal(t, render(), render())
	assert.Equal(t, NewFaker(0).LastName(), NewFaker(0).LastName())
}

func TestDifferentSeedDifferentCatalog(t *testing.T) {
	a := Generate(newSeededGenerator(1), 5, &bytes.Buffer{})
	b := Generate(newSeededGenerator(2), 5, &bytes.Buffer{})
	assert.NotEqual(t, a, b)
}

func TestMintConditionFragment(t *testing.T) {
	tables := DefaultTables()
	const mint = "Mint condition. Appears almost new despite its age. Museum quality piece."
	assert.Equal(t, mint, tables.ConditionDescription(5.0))

	decade, ok := tables.Decade(1960)
	require.True(t, ok)

	// keep every fragment: the prefix length draw returns its maximum
	src := &fixedSource{f: 0.5, intN: func(n int) int { return n - 1 }}
	g := NewGenerator(tables, src, stubFaker{}, fixedNow)

	desc := g.description(&draft{
		category:    "Media",
		subcategory: "Vinyl Records",
		era:         "Space Age",
		decade:      decade,
		materials:   []string{"Vinyl", "Cardboard"},
		colors:      []string{"Black"},
		condition:   5.0,
	})

	assert.Contains(t, desc, mint)
	assert.Contains(t, desc, "Composed of Vinyl and Cardboard.")
	assert.Contains(t, desc, "Coveted by nostalgists for its cultural significance.")
	assert.NotContains(t, desc, "origin", "no origin fragment when the draw is above 0.4")
}

func TestNameDecorationsStack(t *testing.T) {
	decade, ok := DefaultTables().Decade(1950)
	require.True(t, ok)

	src := &fixedSource{f: 0.1, intN: func(n int) int { return n - 1 }}
	g := NewGenerator(DefaultTables(), src, stubFaker{}, fixedNow)

	name := g.name("Watches", "Atomic Age", decade, []string{"Silver"})
	assert.Equal(t, "Greta Magnusson British Vintage Watche - Premium Model", name)

	src.f = 0.9
	assert.Equal(t, "Vintage Watche", g.name("Watches", "Atomic Age", decade, []string{"Silver"}))
}

func TestListPhrase(t *testing.T) {
	assert.Equal(t, "Teak", listPhrase([]string{"Teak"}))
	assert.Equal(t, "Teak and Brass", listPhrase([]string{"Teak", "Brass"}))
	assert.Equal(t, "Teak, Brass and Glass", listPhrase([]string{"Teak", "Brass", "Glass"}))
}

func TestOriginFragmentPlaces(t *testing.T) {
	// origin "Dutch" is last; template 1 names the place
	calls := 0
	src := &fixedSource{intN: func(n int) int {
		calls++
		if calls == 1 {
			return n - 1
		}
		return 1
	}}
	g := NewGenerator(DefaultTables(), src, stubFaker{}, fixedNow)
	assert.Equal(t, "Designed and crafted in the Netherlands.", originFragment(g))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]models.Product{
		{Category: "Media", PriceDollars: 10},
		{Category: "Furniture", PriceDollars: 30},
		{Category: "Media", PriceDollars: 20},
	})
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.ByCategory["Media"])
	assert.InDelta(t, 20.0, s.MeanPrice, 1e-9)
	assert.True(t, slices.IsSorted(s.Categories()))
}
