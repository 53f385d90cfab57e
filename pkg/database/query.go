package database

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultLimit is used when a query asks for no positive limit.
const DefaultLimit = 5

// SimilarityQuery asks for the Limit rows nearest to Vector, optionally
// restricted by a raw conjunctive filter expression (no WHERE keyword).
type SimilarityQuery struct {
	Table  string
	Vector []float32
	Filter string
	Limit  int
}

func (q SimilarityQuery) limit() int {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	return q.Limit
}

// BuildClickHouseQuery renders q with an L2Distance ordering against an array
// literal of the query vector.
func BuildClickHouseQuery(q SimilarityQuery) string {
	distance := fmt.Sprintf("toFloat64(L2Distance(embedding, %s)) AS distance", vectorLiteral(q.Vector))
	return buildQuery(q, distance)
}

// BuildPostgresQuery renders q with pgvector's <-> operator; the vector is
// bound as $1.
func BuildPostgresQuery(q SimilarityQuery) string {
	return buildQuery(q, "embedding <-> $1::vector AS distance")
}

func buildQuery(q SimilarityQuery, distance string) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(resultColumns, ", "))
	b.WriteString(", ")
	b.WriteString(distance)
	b.WriteString(" FROM ")
	b.WriteString(q.Table)
	if f := strings.TrimSpace(q.Filter); f != "" {
		b.WriteString(" WHERE ")
		b.WriteString(f)
	}
	b.WriteString(" ORDER BY distance ASC LIMIT ")
	b.WriteString(strconv.Itoa(q.limit()))
	return b.String()
}

func vectorLiteral(vec []float32) string {
	parts := make([]string, len(vec))
	for i, v := range vec {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Filter accumulates conjunctive conditions for SimilarityQuery.Filter.
type Filter struct {
	terms []string
}

// Eq adds column = 'value'.
func (f *Filter) Eq(column, value string) *Filter {
	f.terms = append(f.terms, fmt.Sprintf("%s = %s", column, quote(value)))
	return f
}

// Between adds lo <= column AND column < hi.
func (f *Filter) Between(column string, lo, hi int) *Filter {
	f.terms = append(f.terms, fmt.Sprintf("%d <= %s AND %s < %d", lo, column, column, hi))
	return f
}

// AtLeast adds column >= lo.
func (f *Filter) AtLeast(column string, lo int) *Filter {
	f.terms = append(f.terms, fmt.Sprintf("%s >= %d", column, lo))
	return f
}

// AtMost adds column <= hi.
func (f *Filter) AtMost(column string, hi int) *Filter {
	f.terms = append(f.terms, fmt.Sprintf("%s <= %d", column, hi))
	return f
}

// String joins the conditions with AND; empty when there are none.
func (f *Filter) String() string {
	return strings.Join(f.terms, " AND ")
}

// quote doubles single quotes, which both ClickHouse and Postgres accept.
// Callers pass validated values; backslashes are not escaped.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
