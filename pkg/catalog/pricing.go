package catalog

import (
	"math"
)

type ageBracket struct {
	olderThan int
	lo, hi    float64
}

// Age brackets are checked oldest first; the last one catches everything else.
var ageBrackets = []ageBracket{
	{olderThan: 100, lo: 1.5, hi: 3.0},
	{olderThan: 70, lo: 1.2, hi: 2.0},
	{olderThan: 40, lo: 0.9, hi: 1.5},
	{olderThan: math.MinInt, lo: 0.7, hi: 1.2},
}

const (
	uniquenessMin = 0.8
	uniquenessMax = 1.5
)

// ConditionMultiplier scales price by condition: 0.5 + condition/5.
func ConditionMultiplier(condition float64) float64 {
	return 0.5 + condition/5.0
}

// AgeMultiplierRange is the uniform range of the age multiplier for an item
// from decade, as of currentYear.
func AgeMultiplierRange(decade, currentYear int) (lo, hi float64) {
	age := currentYear - decade
	for _, b := range ageBrackets {
		if age > b.olderThan {
			return b.lo, b.hi
		}
	}
	last := ageBrackets[len(ageBrackets)-1]
	return last.lo, last.hi
}

// Price computes base × condition × age × uniqueness with the draws made in
// that order, then rounds with RoundPrice.
func Price(src Source, category Category, condition float64, decade, currentYear int) float64 {
	base := uniform(src, category.Price.Min, category.Price.Max)
	ageLo, ageHi := AgeMultiplierRange(decade, currentYear)
	age := uniform(src, ageLo, ageHi)
	uniqueness := uniform(src, uniquenessMin, uniquenessMax)

	return RoundPrice(base * ConditionMultiplier(condition) * age * uniqueness)
}

// RoundPrice rounds prices above 100 to the nearest 10 and the rest to one
// decimal place, half to even.
func RoundPrice(price float64) float64 {
	if price > 100 {
		return math.RoundToEven(price/10) * 10
	}
	return math.RoundToEven(price*10) / 10
}
