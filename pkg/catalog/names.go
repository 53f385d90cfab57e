package catalog

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
)

const (
	designerProbability = 0.4
	originProbability   = 0.3
	modelProbability    = 0.3
)

var (
	nameCountries = []string{"Danish", "Swedish", "Italian", "French", "American", "Japanese", "German", "British"}
	nameModels    = []string{"Deluxe", "Standard", "Custom", "Limited Edition", "Special", "Signature", "Premium"}
)

// Faker supplies invented people for designer names.
type Faker interface {
	FirstName() string
	LastName() string
}

// NewFaker returns a faker whose names follow seed. gofakeit picks a random
// seed for zero, so the faker seed is drawn from the catalog source instead
// and is never zero.
func NewFaker(seed uint64) *gofakeit.Faker {
	return gofakeit.New(NewSource(seed).Uint64() | 1)
}

// singular drops every trailing "s", so "Watches" becomes "Watche".
func singular(subcategory string) string {
	return strings.TrimRight(subcategory, "s")
}

// name picks one of six templates, then independently prefixes a designer,
// prefixes an origin country and suffixes a model. All three may apply.
func (g *Generator) name(subcategory, era string, decade Decade, materials []string) string {
	item := singular(subcategory)

	var base string
	switch g.src.IntN(6) {
	case 0:
		base = choice(g.src, decade.Styles) + " " + item
	case 1:
		base = era + " " + item
	case 2:
		base = choice(g.src, materials) + " " + item
	case 3:
		base = choice(g.src, decade.CulturalRefs) + " Era " + item
	case 4:
		base = fmt.Sprintf("%ds %s", decade.Decade, item)
	default:
		base = "Vintage " + item
	}

	withDesigner := g.src.Float64() < designerProbability
	withOrigin := g.src.Float64() < originProbability
	withModel := g.src.Float64() < modelProbability

	name := base
	if withOrigin {
		name = choice(g.src, nameCountries) + " " + name
	}
	if withDesigner {
		name = g.designer() + " " + name
	}
	if withModel {
		name = name + " - " + choice(g.src, nameModels) + " Model"
	}
	return name
}

func (g *Generator) designer() string {
	switch g.src.IntN(3) {
	case 0:
		return g.faker.LastName()
	case 1:
		return g.faker.LastName() + " & " + g.faker.LastName()
	default:
		return g.faker.FirstName() + " " + g.faker.LastName()
	}
}
