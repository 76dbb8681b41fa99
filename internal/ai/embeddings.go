package ai

import (
	"context"
	"fmt"
	"math"

	"phishing-paper-platform/internal/config"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Embedder maps text to a fixed-dimension vector. Vectors from different
// embedders must never be mixed in one index, so every embedder carries an
// identifier that the index is tagged with.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	ID() string
	Dimension() int
}

// NewEmbedder returns the embedder selected by EMBEDDINGS_PROVIDER.
// Default provider is Google Generative AI (text-embedding-004).
func NewEmbedder(ctx context.Context, cfg *config.Config) (Embedder, error) {
	switch cfg.EmbeddingsProvider {
	case "google", "":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("missing GEMINI_API_KEY for embeddings")
		}
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			return nil, err
		}
		return &GoogleEmbedder{
			client: client,
			model:  cfg.GoogleEmbeddingsModel,
			dim:    cfg.VectorDimensions,
		}, nil

	case "local":
		return NewLocalEmbedder(), nil

	default:
		return nil, fmt.Errorf("unknown embeddings provider: %s", cfg.EmbeddingsProvider)
	}
}

// GoogleEmbedder generates embeddings via the Gemini embeddings API.
type GoogleEmbedder struct {
	client *genai.Client
	model  string
	dim    int
}

func (g *GoogleEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	model := g.client.EmbeddingModel(g.model)
	resp, err := model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	if len(resp.Embedding.Values) != g.dim {
		return nil, fmt.Errorf("embedding dimension %d does not match configured %d", len(resp.Embedding.Values), g.dim)
	}
	return resp.Embedding.Values, nil
}

func (g *GoogleEmbedder) ID() string {
	return "google/" + g.model
}

func (g *GoogleEmbedder) Dimension() int {
	return g.dim
}

func (g *GoogleEmbedder) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

const localEmbedderDim = 384

// LocalEmbedder is a deterministic character-frequency embedding with no
// external dependency. Not a semantic model: it exists for offline
// development and for tests that need reproducible vectors.
type LocalEmbedder struct{}

func NewLocalEmbedder() *LocalEmbedder {
	return &LocalEmbedder{}
}

func (l *LocalEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runes := []rune(text)
	vec := make([]float64, localEmbedderDim)
	if len(runes) == 0 {
		out := make([]float32, localEmbedderDim)
		out[0] = 1
		return out, nil
	}

	for _, r := range runes {
		vec[int(r)%localEmbedderDim] += 1.0 / float64(len(runes))
	}

	var magnitude float64
	for _, v := range vec {
		magnitude += v * v
	}
	magnitude = math.Sqrt(magnitude)

	out := make([]float32, localEmbedderDim)
	for i, v := range vec {
		out[i] = float32(v / magnitude)
	}
	return out, nil
}

func (l *LocalEmbedder) ID() string {
	return fmt.Sprintf("local/charfreq-%d", localEmbedderDim)
}

func (l *LocalEmbedder) Dimension() int {
	return localEmbedderDim
}
