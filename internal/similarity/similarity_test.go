package similarity

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ahmethakanbesel/similarity-api/internal/embedding"
)

// mapEmbedder returns a canned vector per input text.
type mapEmbedder struct {
	vectors map[string][]float32
}

func (m *mapEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	v, ok := m.vectors[text]
	if !ok {
		return nil, embedding.ErrEmptyInput
	}
	return v, nil
}

func TestClassify_Boundaries(t *testing.T) {
	e := NewEngine(nil)

	cases := []struct {
		score float64
		want  string
	}{
		{0.6, "Excellent"},
		{0.95, "Excellent"},
		{0.599, "Good"},
		{0.4, "Good"},
		{0.399, "Acceptable"},
		{0.3, "Acceptable"},
		{0.29, "Poor"},
		{0.0, "Poor"},
		{-0.8, "Poor"},
	}
	for _, tc := range cases {
		if got := e.Classify(tc.score); got != tc.want {
			t.Errorf("Classify(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestClassify_CustomThresholds(t *testing.T) {
	e := NewEngine(nil, WithThresholds([]Threshold{
		{Min: 0.9, Label: "High"},
		{Min: 0.5, Label: "Medium"},
	}))

	if got := e.Classify(0.9); got != "High" {
		t.Errorf("expected High, got %s", got)
	}
	if got := e.Classify(0.6); got != "Medium" {
		t.Errorf("expected Medium, got %s", got)
	}
	if got := e.Classify(0.1); got != PoorLabel {
		t.Errorf("expected %s, got %s", PoorLabel, got)
	}
}

func TestScore_IdenticalVectors(t *testing.T) {
	e := NewEngine(&mapEmbedder{vectors: map[string][]float32{
		"a": {0.6, 0.8},
		"b": {0.6, 0.8},
	}})

	score, label, err := e.Score(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(score-MaxScore) > 1e-9 {
		t.Errorf("expected max score, got %v", score)
	}
	if label != "Excellent" {
		t.Errorf("expected Excellent, got %s", label)
	}
}

func TestScore_OrthogonalVectors(t *testing.T) {
	e := NewEngine(&mapEmbedder{vectors: map[string][]float32{
		"a": {1, 0, 0},
		"b": {0, 1, 0},
	}})

	score, label, err := e.Score(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 0 {
		t.Errorf("expected 0, got %v", score)
	}
	if label != "Poor" {
		t.Errorf("expected Poor, got %s", label)
	}
}

func TestScore_ZeroMagnitude(t *testing.T) {
	e := NewEngine(&mapEmbedder{vectors: map[string][]float32{
		"a": {0, 0, 0},
		"b": {1, 2, 3},
	}})

	score, label, err := e.Score(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("zero-magnitude vector must not error, got %v", err)
	}
	if score != MinScore {
		t.Errorf("expected minimum score, got %v", score)
	}
	if label != "Poor" {
		t.Errorf("expected Poor, got %s", label)
	}
}

func TestScore_EmbedderFailurePropagates(t *testing.T) {
	e := NewEngine(&mapEmbedder{vectors: map[string][]float32{
		"a": {1, 1},
	}})

	_, _, err := e.Score(context.Background(), "a", "unknown")
	if !errors.Is(err, embedding.ErrEmptyInput) {
		t.Errorf("expected embedder error to propagate, got %v", err)
	}
}

func TestCosine_Clamped(t *testing.T) {
	// Accumulated float error can push the raw ratio past 1.0.
	a := []float32{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1}
	if got := Cosine(a, a); got > MaxScore {
		t.Errorf("cosine not clamped: %v", got)
	}
}
