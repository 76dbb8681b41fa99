package ai

import (
	"context"
	"math"
	"os"
	"testing"

	"phishing-paper-platform/internal/config"
)

func TestLocalEmbedderDeterministic(t *testing.T) {
	embedder := NewLocalEmbedder()

	first, err := embedder.Embed(context.Background(), "Phishing adalah serangan rekayasa sosial.")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	second, err := embedder.Embed(context.Background(), "Phishing adalah serangan rekayasa sosial.")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}

	if len(first) != embedder.Dimension() {
		t.Fatalf("expected dimension %d, got %d", embedder.Dimension(), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("vectors differ at %d: %f vs %f", i, first[i], second[i])
		}
	}
}

func TestLocalEmbedderNormalized(t *testing.T) {
	embedder := NewLocalEmbedder()

	vec, err := embedder.Embed(context.Background(), "Serangan phishing memanfaatkan kelengahan manusia.")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}

	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	if math.Abs(magnitude-1.0) > 1e-5 {
		t.Fatalf("expected unit vector, squared magnitude %f", magnitude)
	}
}

func TestLocalEmbedderEmptyTextNotZero(t *testing.T) {
	embedder := NewLocalEmbedder()

	vec, err := embedder.Embed(context.Background(), "")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	any := false
	for _, v := range vec {
		if v != 0 {
			any = true
			break
		}
	}
	if !any {
		t.Fatalf("empty text must not produce a zero vector")
	}
}

func TestGoogleEmbedderLive(t *testing.T) {
	if os.Getenv("GEMINI_API_KEY") == "" {
		t.Skip("GEMINI_API_KEY not set")
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		t.Skipf("config load failed: %v", err)
	}

	embedder, err := NewEmbedder(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new embedder: %v", err)
	}
	vec, err := embedder.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("embedding error: %v", err)
	}
	if len(vec) != embedder.Dimension() {
		t.Fatalf("expected %d dimensions, got %d", embedder.Dimension(), len(vec))
	}
}
