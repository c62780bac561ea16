package indexing

// Process-wide extraction budget. These are configuration, not per-request
// parameters: only the chunk cap is overridable, and only through an
// operator-controlled environment variable.
const (
	// DefaultMaxChunkChars is the maximum characters per content chunk.
	DefaultMaxChunkChars = 1600
	// DefaultChunkOverlap is the character overlap between consecutive
	// chunks of the same page, so a concept split across a boundary is
	// still retrievable from at least one chunk.
	DefaultChunkOverlap = 200
	// DefaultSummaryByteBudget bounds the byte-budgeted serializer output.
	DefaultSummaryByteBudget = 24576
	// DefaultLargeDocBytes is the extracted_data size above which a
	// document is serialized in summary mode.
	DefaultLargeDocBytes = 262144
	// DefaultMaxChunksPerDoc caps chunks emitted per invocation. The
	// embedding backend has a hard per-invocation memory ceiling; this is
	// a resource-exhaustion safeguard, not a quality filter.
	DefaultMaxChunksPerDoc = 200

	// maxSampleRecords bounds sample rows in full-fidelity serialization.
	maxSampleRecords = 50
)

// Budget holds the immutable per-process extraction limits.
type Budget struct {
	MaxChunkChars     int
	ChunkOverlap      int
	SummaryByteBudget int
	LargeDocBytes     int
	MaxChunksPerDoc   int
}

// DefaultBudget returns the built-in limits.
func DefaultBudget() Budget {
	return Budget{
		MaxChunkChars:     DefaultMaxChunkChars,
		ChunkOverlap:      DefaultChunkOverlap,
		SummaryByteBudget: DefaultSummaryByteBudget,
		LargeDocBytes:     DefaultLargeDocBytes,
		MaxChunksPerDoc:   DefaultMaxChunksPerDoc,
	}
}

// WithMaxChunks overrides the chunk cap when n is positive. Used only at
// wiring time with the MAX_CHUNKS_PER_DOC environment variable.
func (b Budget) WithMaxChunks(n int) Budget {
	if n > 0 {
		b.MaxChunksPerDoc = n
	}
	return b
}
