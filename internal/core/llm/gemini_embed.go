package llm

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/lewis4x4/SouthernCoal-sub001/internal/core"
)

// GeminiEmbedder opens embedding sessions against Gemini. The genai client
// is shared; the per-invocation session holds the model handle that is
// reused for every chunk of that invocation.
type GeminiEmbedder struct {
	client    *genai.Client
	modelName string
}

func NewGeminiEmbedder(ctx context.Context, apiKey, modelName string) (*GeminiEmbedder, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "text-embedding-004"
	}
	return &GeminiEmbedder{client: cl, modelName: modelName}, nil
}

func (g *GeminiEmbedder) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// OpenSession creates the inference handle reused across one invocation.
func (g *GeminiEmbedder) OpenSession(ctx context.Context) (core.EmbeddingSession, error) {
	em := g.client.EmbeddingModel(g.modelName)
	em.TaskType = genai.TaskTypeRetrievalDocument
	return &geminiSession{em: em}, nil
}

type geminiSession struct {
	em *genai.EmbeddingModel
}

// Embed converts one chunk's text to a normalized fixed-length vector.
func (s *geminiSession) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.em == nil {
		return nil, fmt.Errorf("embedding session closed")
	}
	resp, err := s.em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini embed: empty vector")
	}
	// The model only guarantees unit length at its default dimensionality;
	// normalize so cosine and inner-product ranking agree downstream.
	return l2Normalize(resp.Embedding.Values), nil
}

func (s *geminiSession) Close() error {
	s.em = nil
	return nil
}

func l2Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

var _ core.Embedder = (*GeminiEmbedder)(nil)
