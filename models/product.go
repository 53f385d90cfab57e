package models

import (
	"time"
)

// DateAddedLayout is the text layout of date_added in the catalog file.
const DateAddedLayout = "2006-01-02 15:04:05"

// Product represents a catalog record as written by the generator and read by the loader
type Product struct {
	ProductID       int       `json:"product_id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	Subcategory     string    `json:"subcategory"`
	Era             string    `json:"era"`
	Decade          int       `json:"decade"`
	Materials       []string  `json:"materials"`
	Colors          []string  `json:"colors"`
	ConditionRating float64   `json:"condition_rating"`
	PriceDollars    float64   `json:"price_dollars"`
	Description     string    `json:"description"`
	Embedding       []float32 `json:"embedding"`
	DateAdded       string    `json:"date_added"` // DateAddedLayout
}

// StoredProduct is a Product ready for the store: date_added parsed into a timestamp
type StoredProduct struct {
	Product
	AddedAt time.Time `json:"-"`
}

// SearchResult is one row returned by a similarity query
type SearchResult struct {
	ProductID       int      `json:"product_id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Subcategory     string   `json:"subcategory"`
	Era             string   `json:"era"`
	Decade          int      `json:"decade"`
	Materials       []string `json:"materials"`
	Colors          []string `json:"colors"`
	ConditionRating float64  `json:"condition_rating"`
	PriceDollars    float64  `json:"price_dollars"`
	Description     string   `json:"description"`
	Distance        float64  `json:"distance"`
}
