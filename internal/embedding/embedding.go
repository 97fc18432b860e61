// Package embedding defines the embedding model boundary: text in, fixed
// length vector out.
package embedding

import (
	"context"
	"errors"
)

// ErrEmptyInput is returned when there is no text to embed. The similarity
// engine never calls the model with empty input, so seeing this error means
// the caller skipped content validation.
var ErrEmptyInput = errors.New("embedding: empty input")

// Embedder produces a fixed-length vector for a text. Implementations are
// expected to be safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
