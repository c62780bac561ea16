package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/lewis4x4/SouthernCoal-sub001/internal/core"
)

// extractTimeout is the hard ceiling on one extraction call. On timeout the
// call is treated as failed, not retried; the router falls back to the
// structured payload.
const extractTimeout = 90 * time.Second

// extractPrompt demands completeness, not brevity: downstream retrieval
// depends on every page being present, so the model is told explicitly not
// to summarize or skip.
const extractPrompt = `Extract the complete text of every page of this document.
Return a JSON array where each element is {"page": <1-based page number>, "text": "<full page text>"}.
Preserve paragraph structure. Render tables as plain text rows.
Do not summarize, abbreviate, or skip any page. Return only the JSON array, no other output.`

// GeminiExtractor asks a document-understanding model for page-indexed text.
type GeminiExtractor struct {
	client    *genai.Client
	modelName string
}

func NewGeminiExtractor(ctx context.Context, apiKey, modelName string) (*GeminiExtractor, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiExtractor{client: cl, modelName: modelName}, nil
}

func (g *GeminiExtractor) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// ExtractPages fetches the document at fileURL through the model and returns
// its page-indexed text. Pages with no extractable text are dropped. Any
// malformed response is an error; the caller decides the fallback.
func (g *GeminiExtractor) ExtractPages(ctx context.Context, fileURL string) ([]core.Page, error) {
	tctx, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	m := g.client.GenerativeModel(g.modelName)
	m.SetTemperature(0)

	resp, err := m.GenerateContent(tctx,
		genai.FileData{MIMEType: "application/pdf", URI: fileURL},
		genai.Text(extractPrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini extract: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini extract: empty response")
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}

	var pages []core.Page
	if err := json.Unmarshal([]byte(stripFences(b.String())), &pages); err != nil {
		return nil, fmt.Errorf("gemini extract: response is not a page array: %w", err)
	}

	out := pages[:0]
	for _, p := range pages {
		if strings.TrimSpace(p.Text) != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

// stripFences removes a markdown code fence the model sometimes wraps JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

var _ core.PageExtractor = (*GeminiExtractor)(nil)
