// Package similarity scores the semantic closeness of two texts and maps the
// score onto a discrete relevance tier.
package similarity

import (
	"context"
	"fmt"
	"math"

	"github.com/ahmethakanbesel/similarity-api/internal/embedding"
)

const (
	// MinScore is the lower bound of the cosine range and the value reported
	// for degenerate (zero-magnitude) embeddings.
	MinScore = -1.0
	// MaxScore is the upper bound of the cosine range.
	MaxScore = 1.0
)

// Threshold is one tier of the classification table: scores at or above Min
// take Label unless a higher tier already matched.
type Threshold struct {
	Min   float64
	Label string
}

// DefaultThresholds is the tier table used when none is injected. Ordered
// highest first; lower bounds are inclusive, so exactly 0.6 is Excellent.
var DefaultThresholds = []Threshold{
	{Min: 0.6, Label: "Excellent"},
	{Min: 0.4, Label: "Good"},
	{Min: 0.3, Label: "Acceptable"},
}

// PoorLabel is the catch-all tier below every threshold, including negative
// scores.
const PoorLabel = "Poor"

// Engine computes cosine similarity over an embedding model.
type Engine struct {
	embedder   embedding.Embedder
	thresholds []Threshold
}

// Option configures an Engine.
type Option func(*Engine)

// WithThresholds injects a custom ordered tier table (highest Min first).
func WithThresholds(t []Threshold) Option {
	return func(e *Engine) {
		if len(t) > 0 {
			e.thresholds = t
		}
	}
}

// NewEngine creates an Engine over the given embedder.
func NewEngine(embedder embedding.Embedder, opts ...Option) *Engine {
	e := &Engine{embedder: embedder, thresholds: DefaultThresholds}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Score embeds both texts and returns their cosine similarity together with
// the matching tier label. Both inputs must be non-empty text content; an
// embedder failure is returned as-is, never substituted with a default score.
func (e *Engine) Score(ctx context.Context, textA, textB string) (float64, string, error) {
	vecA, err := e.embedder.Embed(ctx, textA)
	if err != nil {
		return 0, "", fmt.Errorf("embed first text: %w", err)
	}
	vecB, err := e.embedder.Embed(ctx, textB)
	if err != nil {
		return 0, "", fmt.Errorf("embed second text: %w", err)
	}

	score := Cosine(vecA, vecB)
	return score, e.Classify(score), nil
}

// Classify maps a score onto the tier table, highest tier first.
func (e *Engine) Classify(score float64) string {
	for _, t := range e.thresholds {
		if score >= t.Min {
			return t.Label
		}
	}
	return PoorLabel
}

// Cosine returns dot(a,b) / (|a|*|b|), clamped to [MinScore, MaxScore]. If
// either vector has zero magnitude the result is MinScore, not an error.
func Cosine(a, b []float32) float64 {
	n := min(len(a), len(b))
	var dot, normA, normB float64
	for i := range n {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return MinScore
	}
	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(MinScore, math.Min(MaxScore, score))
}
