// Package embedding turns text into vectors through an external service.
package embedding

import (
	"context"
	"errors"
)

// ErrEmptyEmbedding is returned when the service answers without a vector.
var ErrEmptyEmbedding = errors.New("no embedding data in response")

// ErrDimensionMismatch is returned when a vector does not have the configured size.
var ErrDimensionMismatch = errors.New("embedding has unexpected dimensions")

// Embedder generates a vector embedding for one text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Func adapts a plain function to Embedder.
type Func func(ctx context.Context, text string) ([]float32, error)

// Embed calls f.
func (f Func) Embed(ctx context.Context, text string) ([]float32, error) {
	return f(ctx, text)
}
