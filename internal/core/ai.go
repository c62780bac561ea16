package core

import "context"

// Page is one page of extracted document text. Number is 1-based for real
// pages; serialized structured content uses page 0.
type Page struct {
	Number int    `json:"page"`
	Text   string `json:"text"`
}

// PageExtractor calls the external document-understanding model to obtain
// page-indexed text for a stored document reachable at fileURL.
type PageExtractor interface {
	ExtractPages(ctx context.Context, fileURL string) ([]Page, error)
}

// Embedder opens embedding sessions. A session wraps one inference handle
// that is reused for every chunk of an invocation and released at the end,
// so no per-chunk model state is created and none survives the request.
type Embedder interface {
	OpenSession(ctx context.Context) (EmbeddingSession, error)
}

// EmbeddingSession converts text to a normalized fixed-length vector.
type EmbeddingSession interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Close() error
}
