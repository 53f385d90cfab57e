package catalog

import (
	"fmt"
	"strings"
)

const originFragmentProbability = 0.4

var originPlaces = strings.NewReplacer("American", "America", "British", "Britain", "Dutch", "the Netherlands")

var origins = []string{"American", "Scandinavian", "Italian", "French", "German", "Japanese", "British", "Dutch"}

// fragment builds one sentence from the source. Templates draw their own words.
type fragment func(g *Generator, p *draft) string

// draft is the part of a product the description is written about.
type draft struct {
	category    string
	subcategory string
	era         string
	decade      Decade
	materials   []string
	colors      []string
	condition   float64
}

var styleFragments = []fragment{
	func(g *Generator, p *draft) string { return fmt.Sprintf("A beautiful example of %s design.", p.era) },
	func(g *Generator, p *draft) string {
		return fmt.Sprintf("Classic %ds %s.", p.decade.Decade, strings.ToLower(p.subcategory))
	},
	func(g *Generator, p *draft) string {
		return fmt.Sprintf("Showcases quintessential %s aesthetics.", choice(g.src, p.decade.Styles))
	},
	func(g *Generator, p *draft) string {
		return fmt.Sprintf("Embodies the %s period with its %s.", p.era,
			g.pick("clean lines", "ornate details", "minimalist approach", "bold geometry"))
	},
	func(g *Generator, p *draft) string {
		return fmt.Sprintf("A %s piece from the %ds.", g.pick("rare", "stunning", "pristine", "remarkable"), p.decade.Decade)
	},
}

var materialFragments = []fragment{
	func(g *Generator, p *draft) string { return fmt.Sprintf("Crafted from %s.", listPhrase(p.materials)) },
	func(g *Generator, p *draft) string { return fmt.Sprintf("Made with high-quality %s.", listPhrase(p.materials)) },
	func(g *Generator, p *draft) string { return fmt.Sprintf("Features %s construction.", listPhrase(p.materials)) },
	func(g *Generator, p *draft) string { return fmt.Sprintf("Composed of %s.", listPhrase(p.materials)) },
}

var colorFragments = []fragment{
	func(g *Generator, p *draft) string {
		return fmt.Sprintf("Comes in %s %s.", g.pick("vibrant", "rich", "deep", "soft", "muted"), listPhrase(p.colors))
	},
	func(g *Generator, p *draft) string {
		return fmt.Sprintf("The %s %s %s the %ds aesthetic.", listPhrase(p.colors),
			g.pick("tones", "hues", "colors", "palette"), g.pick("evoke", "reflect", "capture"), p.decade.Decade)
	},
	func(g *Generator, p *draft) string {
		return fmt.Sprintf("Features a %s %s %s.", g.pick("striking", "classic", "subtle", "bold"), listPhrase(p.colors),
			g.pick("finish", "color scheme", "palette"))
	},
}

var culturalFragments = []fragment{
	func(g *Generator, p *draft) string {
		return fmt.Sprintf("Popular during the era of %s.", choice(g.src, p.decade.CulturalRefs))
	},
	func(g *Generator, p *draft) string {
		return fmt.Sprintf("This piece captures the zeitgeist of %s.", choice(g.src, p.decade.CulturalRefs))
	},
	func(g *Generator, p *draft) string {
		return fmt.Sprintf("A nostalgic reminder of %s.", choice(g.src, p.decade.CulturalRefs))
	},
	func(g *Generator, p *draft) string {
		return fmt.Sprintf("Would have been found in %s during the %ds.",
			g.pick("stylish homes", "upscale apartments", "trendy spaces", "fashionable interiors"), p.decade.Decade)
	},
}

var emotionalFragments = []fragment{
	func(g *Generator, p *draft) string {
		return fmt.Sprintf("Evokes a sense of %s.", g.pick("nostalgia", "history", "timeless elegance", "retro charm", "vintage cool"))
	},
	func(g *Generator, p *draft) string {
		return fmt.Sprintf("A conversation piece that brings %s to any space.", g.pick("warmth", "character", "history", "charm"))
	},
	func(g *Generator, p *draft) string {
		return fmt.Sprintf("Collectors prize these for their %s.",
			g.pick("distinctive character", "historical significance", "iconic design", "nostalgic appeal"))
	},
	func(g *Generator, p *draft) string {
		return fmt.Sprintf("Represents a bygone era of %s.",
			g.pick("craftsmanship", "design innovation", "style", "cultural expression"))
	},
}

var categoryFragments = map[string][]fragment{
	"Furniture": {
		func(g *Generator, p *draft) string {
			return fmt.Sprintf("Features %s.", g.pick("tapered legs", "curved lines", "geometric patterns",
				"organic forms", "minimal ornamentation", "sculptural elements"))
		},
		func(g *Generator, p *draft) string {
			return fmt.Sprintf("The %s exemplifies %s design philosophy.",
				g.pick("proportions", "silhouette", "form", "structure"), p.era)
		},
		func(g *Generator, p *draft) string {
			return fmt.Sprintf("Offers both %s.", g.pick("form and function", "style and comfort",
				"beauty and utility", "aesthetics and practicality"))
		},
	},
	"Electronics": {
		func(g *Generator, p *draft) string {
			return fmt.Sprintf("Still %s after all these years.",
				g.pick("functions perfectly", "works as intended", "operates well", "performs admirably"))
		},
		func(g *Generator, p *draft) string {
			return fmt.Sprintf("Features %s.", g.pick("analog controls", "vacuum tubes", "mechanical components",
				"early digital technology", "tactile interfaces"))
		},
		func(g *Generator, p *draft) string {
			return fmt.Sprintf("Represents %s of its time.", g.pick("early innovation", "technological breakthroughs",
				"engineering excellence", "design evolution"))
		},
	},
	"Media": {
		func(g *Generator, p *draft) string {
			return fmt.Sprintf("Contains %s.", g.pick("rare recordings", "sought-after content",
				"nostalgic programming", "classic performances", "period-specific material"))
		},
		func(g *Generator, p *draft) string {
			return fmt.Sprintf("A %s from the %ds.", g.pick("time capsule", "cultural artifact",
				"preserved memory", "historical document"), p.decade.Decade)
		},
		func(g *Generator, p *draft) string {
			return fmt.Sprintf("Coveted by %s for its %s.", g.pick("collectors", "enthusiasts", "archivists", "nostalgists"),
				g.pick("rarity", "content", "condition", "cultural significance"))
		},
	},
}

func originFragment(g *Generator) string {
	origin := choice(g.src, origins)
	switch g.src.IntN(4) {
	case 0:
		return fmt.Sprintf("Of %s origin.", origin)
	case 1:
		return fmt.Sprintf("Designed and crafted in %s.", originPlaces.Replace(origin))
	case 2:
		return fmt.Sprintf("Shows classic %s %s.", origin,
			g.pick("craftsmanship", "design sensibilities", "aesthetics", "influences"))
	default:
		return fmt.Sprintf("Part of the %s %s of the period.", origin,
			g.pick("design movement", "artistic tradition", "manufacturing excellence", "creative heritage"))
	}
}

// description assembles the six core fragments, the category fragment and
// sometimes an origin fragment, shuffles them, and keeps a random prefix of
// at least three.
func (g *Generator) description(p *draft) string {
	fragments := []string{
		g.write(styleFragments, p),
		g.write(materialFragments, p),
		g.write(colorFragments, p),
		g.tables.ConditionDescription(p.condition),
		g.write(culturalFragments, p),
		g.write(emotionalFragments, p),
	}

	if extra, ok := categoryFragments[p.category]; ok {
		fragments = append(fragments, g.write(extra, p))
	}
	if g.src.Float64() < originFragmentProbability {
		fragments = append(fragments, originFragment(g))
	}

	g.src.Shuffle(len(fragments), func(i, j int) {
		fragments[i], fragments[j] = fragments[j], fragments[i]
	})

	keep := intBetween(g.src, 3, len(fragments))
	return strings.Join(fragments[:keep], " ")
}

func (g *Generator) write(templates []fragment, p *draft) string {
	return choice(g.src, templates)(g, p)
}

func (g *Generator) pick(words ...string) string {
	return choice(g.src, words)
}

// listPhrase joins items as "a, b and c".
func listPhrase(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
