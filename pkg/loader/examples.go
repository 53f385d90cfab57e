package loader

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nostalgiabin/catalog-service/models"
	"github.com/nostalgiabin/catalog-service/pkg/database"
)

const descriptionPreview = 100

// Example is a canned query run after a load.
type Example struct {
	Query      string
	TopN       int
	Filter     string
	ShowColors bool
}

// Examples are the demonstration queries.
var Examples = []Example{
	{
		Query:  "Mid-century modern furniture with clean lines and minimal design",
		TopN:   3,
		Filter: new(database.Filter).Eq("category", "Furniture").String(),
	},
	{
		Query:      "Colorful retro electronics from the 80s with futuristic design",
		TopN:       3,
		Filter:     new(database.Filter).Eq("category", "Electronics").Between("decade", 1980, 1990).String(),
		ShowColors: true,
	},
}

// RunExamples searches each example and prints its results to w.
func RunExamples(ctx context.Context, s *Searcher, examples []Example, w io.Writer) error {
	fmt.Fprintln(w, "\nExample vector search results:")
	for _, ex := range examples {
		results, err := s.Search(ctx, ex.Query, ex.TopN, ex.Filter)
		if err != nil {
			return fmt.Errorf("example %q: %w", ex.Query, err)
		}
		PrintResults(w, ex, results)
	}
	return nil
}

func PrintResults(w io.Writer, ex Example, results []models.SearchResult) {
	fmt.Fprintf(w, "\nQuery: %s\n", ex.Query)
	for _, r := range results {
		fmt.Fprintf(w, "\nProduct: %s\n", r.Name)
		fmt.Fprintf(w, "Category: %s - %s\n", r.Category, r.Subcategory)
		fmt.Fprintf(w, "Era: %s (%ds)\n", r.Era, r.Decade)
		fmt.Fprintf(w, "Price: $%s\n", strconv.FormatFloat(r.PriceDollars, 'f', -1, 64))
		fmt.Fprintf(w, "Distance: %s\n", strconv.FormatFloat(r.Distance, 'f', -1, 64))
		if ex.ShowColors {
			fmt.Fprintf(w, "Colors: %s\n", strings.Join(r.Colors, ", "))
		}
		fmt.Fprintf(w, "Description: %s...\n", preview(r.Description))
	}
}

func preview(s string) string {
	runes := []rune(s)
	if len(runes) <= descriptionPreview {
		return s
	}
	return string(runes[:descriptionPreview])
}
