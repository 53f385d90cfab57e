package catalog

import (
	"errors"
	"math/rand/v2"
)

// Source is the randomness the generator draws from. *rand.Rand satisfies it;
// tests substitute fixed sources.
type Source interface {
	Float64() float64
	IntN(n int) int
	NormFloat64() float64
	Shuffle(n int, swap func(i, j int))
}

var _ Source = (*rand.Rand)(nil)

// NewSource returns the seeded source used for reproducible runs.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// WeightedSampler draws values with fixed, explicit weights. Weights need not
// sum to one; a draw picks the first value whose cumulative weight exceeds
// u*total for u uniform in [0,1).
type WeightedSampler struct {
	values     []float64
	cumulative []float64
}

// NewWeightedSampler pairs values with weights.
func NewWeightedSampler(values, weights []float64) (*WeightedSampler, error) {
	if len(values) == 0 {
		return nil, errors.New("no values to sample")
	}
	if len(values) != len(weights) {
		return nil, errors.New("values and weights differ in length")
	}

	cumulative := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		if w < 0 {
			return nil, errors.New("negative weight")
		}
		total += w
		cumulative[i] = total
	}
	if total <= 0 {
		return nil, errors.New("weights sum to zero")
	}

	return &WeightedSampler{
		values:     append([]float64(nil), values...),
		cumulative: cumulative,
	}, nil
}

// Sample draws one value.
func (s *WeightedSampler) Sample(src Source) float64 {
	target := src.Float64() * s.cumulative[len(s.cumulative)-1]
	for i, c := range s.cumulative {
		if target < c {
			return s.values[i]
		}
	}
	// floating-point fall-through
	return s.values[len(s.values)-1]
}

// Probability is the normalized weight of values[i].
func (s *WeightedSampler) Probability(i int) float64 {
	prev := 0.0
	if i > 0 {
		prev = s.cumulative[i-1]
	}
	return (s.cumulative[i] - prev) / s.cumulative[len(s.cumulative)-1]
}

func choice[T any](src Source, items []T) T {
	return items[src.IntN(len(items))]
}

// intBetween is uniform over [lo, hi] inclusive.
func intBetween(src Source, lo, hi int) int {
	return lo + src.IntN(hi-lo+1)
}

func uniform(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}

// sample draws up to k distinct items in draw order; k is clamped to len(items).
func sample[T any](src Source, items []T, k int) []T {
	if k > len(items) {
		k = len(items)
	}
	pool := append([]T(nil), items...)
	out := make([]T, 0, k)
	for i := 0; i < k; i++ {
		j := i + src.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
		out = append(out, pool[i])
	}
	return out
}
