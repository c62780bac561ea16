package indexing

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/lewis4x4/SouthernCoal-sub001/internal/core"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/logging"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/metrics"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/models"
)

const (
	signedURLTTL = 15 * time.Minute
	runTimeout   = 5 * time.Minute
	auditAction  = "document.index"
)

// Indexer runs the document indexing pipeline: resolve the source and its
// tenant, produce page text, chunk it, embed each chunk with one shared
// session, and replace the document's chunk set atomically. One invocation
// processes exactly one document, synchronously; throughput comes from
// invoking the pipeline concurrently for different documents.
type Indexer struct {
	db        core.DbClient
	obj       core.ObjectClient
	extractor core.PageExtractor
	embedder  core.Embedder
	budget    Budget
}

// NewIndexer wires the pipeline's collaborators.
func NewIndexer(db core.DbClient, obj core.ObjectClient, extractor core.PageExtractor, embedder core.Embedder, budget Budget) *Indexer {
	return &Indexer{db: db, obj: obj, extractor: extractor, embedder: embedder, budget: budget}
}

// Result reports a completed indexing run.
type Result struct {
	DocumentID       string
	ChunkCount       int
	PageCount        int
	Truncated        bool
	PrecapChunkCount int
	MaxChunksPerDoc  int
}

// Index processes the queue item end to end. Failures are classified
// (*Error); callers triggering this opportunistically should treat them as
// best-effort and not propagate to end users.
func (ix *Indexer) Index(ctx context.Context, pr core.Principal, queueID string) (*Result, error) {
	res, err := ix.run(ctx, pr, queueID)
	if err != nil {
		metrics.IndexRuns.WithLabelValues("failure").Inc()
		return nil, err
	}
	metrics.IndexRuns.WithLabelValues("success").Inc()
	return res, nil
}

func (ix *Indexer) run(ctx context.Context, pr core.Principal, queueID string) (*Result, error) {
	// Once the pipeline starts it runs to completion or unrecoverable
	// failure; caller cancellation is not propagated.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), runTimeout)
	defer cancel()

	src, err := ix.db.GetSourceDocument(ctx, queueID)
	if err != nil {
		return nil, newError(KindInternal, "load source document", err)
	}
	if src == nil {
		return nil, newError(KindNotFound, "document not found", nil)
	}
	orgID, err := ix.resolveOrg(ctx, pr, src)
	if err != nil {
		return nil, err
	}

	if src.Status != models.StatusParsed && src.Status != models.StatusEmbedded {
		return nil, newError(KindStateConflict, fmt.Sprintf("document status %q is not indexable", src.Status), nil)
	}

	payload, err := models.ParseExtraction(src.Category, src.ExtractedData)
	if err != nil {
		logging.Warnw("extracted_data did not decode, continuing without structured content",
			"source_id", src.ID, "category", src.Category, "error", err)
		payload = nil
	}

	pages, err := ix.assemblePages(ctx, pr, src, payload)
	if err != nil {
		return nil, err
	}

	var view *models.PayloadView
	if payload != nil {
		v := payload.View()
		view = &v
	}

	chunks := ix.buildChunks(src, orgID, view, pages)

	result := &Result{
		DocumentID:      documentID(src),
		PageCount:       len(pages),
		MaxChunksPerDoc: ix.budget.MaxChunksPerDoc,
	}
	if len(chunks) > ix.budget.MaxChunksPerDoc {
		result.Truncated = true
		result.PrecapChunkCount = len(chunks)
		chunks = chunks[:ix.budget.MaxChunksPerDoc]
		metrics.CapTruncations.Inc()
		logging.Warnw("chunk list truncated to configured cap",
			"source_id", src.ID, "precap", result.PrecapChunkCount, "cap", ix.budget.MaxChunksPerDoc)
	}

	embedded, err := ix.embedChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}

	var audit *models.AuditEntry
	if !pr.System {
		audit = &models.AuditEntry{
			ID:         uuid.NewString(),
			ActorID:    pr.UserID,
			OrgID:      orgID,
			Action:     auditAction,
			SourceID:   src.ID,
			ChunkCount: len(embedded),
			PageCount:  result.PageCount,
		}
	}

	if err := ix.db.ReplaceDocumentChunks(ctx, src, embedded, audit); err != nil {
		return nil, newError(KindPersistence, "persist chunk index", err)
	}
	metrics.ChunksPersisted.Add(float64(len(embedded)))

	result.ChunkCount = len(embedded)
	logging.Infow("document indexed",
		"source_id", src.ID, "document_id", result.DocumentID, "org_id", orgID,
		"chunks", result.ChunkCount, "pages", result.PageCount, "truncated", result.Truncated)
	return result, nil
}

// buildChunks assembles the metadata chunk (always index 0) followed by the
// page-content chunks, numbered contiguously.
func (ix *Indexer) buildChunks(src *models.SourceDocument, orgID string, view *models.PayloadView, pages []core.Page) []models.DocumentChunk {
	var permitNumber *string
	if view != nil && view.PermitNumber != "" {
		pn := view.PermitNumber
		permitNumber = &pn
	}

	chunks := []models.DocumentChunk{
		newChunk(src, orgID, 0, buildMetadataText(src, view), 0, permitNumber),
	}
	for _, pc := range chunkPages(pages, ix.budget.MaxChunkChars, ix.budget.ChunkOverlap) {
		chunks = append(chunks, newChunk(src, orgID, len(chunks), pc.Text, pc.Page, permitNumber))
	}
	return chunks
}

// embedChunks embeds every chunk with a single session opened for this
// invocation. Index 0 is reserved for the metadata chunk: it is retried once
// and aborts the run if it still fails, so renumbering can never promote raw
// page content into its slot. Page-chunk failures are skipped and the
// survivors renumbered so indices stay contiguous.
func (ix *Indexer) embedChunks(ctx context.Context, chunks []models.DocumentChunk) ([]models.DocumentChunk, error) {
	session, err := ix.embedder.OpenSession(ctx)
	if err != nil {
		return nil, newError(KindEmbeddingFailed, "open embedding session", err)
	}
	defer func() { _ = session.Close() }()

	out := make([]models.DocumentChunk, 0, len(chunks))
	for i, ch := range chunks {
		vec, err := session.Embed(ctx, ch.Content)
		if err != nil && i == 0 {
			vec, err = session.Embed(ctx, ch.Content)
		}
		if err != nil {
			metrics.EmbeddingFailures.Inc()
			if i == 0 {
				return nil, newError(KindEmbeddingFailed, "metadata chunk failed to embed", err)
			}
			logging.Warnw("chunk embedding failed, skipping chunk",
				"source_id", ch.SourceID, "chunk_index", ch.ChunkIndex, "error", err)
			continue
		}
		ch.Embedding = vec
		ch.ChunkIndex = len(out)
		out = append(out, ch)
	}
	return out, nil
}

func newChunk(src *models.SourceDocument, orgID string, index int, text string, page int, permitNumber *string) models.DocumentChunk {
	return models.DocumentChunk{
		ID:           uuid.NewString(),
		DocumentID:   src.DocumentID,
		SourceID:     src.ID,
		OrgID:        orgID,
		ChunkIndex:   index,
		Content:      text,
		CharCount:    utf8.RuneCountInString(text),
		PageNumber:   page,
		Category:     src.Category,
		PermitNumber: permitNumber,
	}
}

// documentID prefers the canonical document id once the queue item has been
// promoted; earlier runs key on the queue row itself.
func documentID(src *models.SourceDocument) string {
	if src.DocumentID != nil && *src.DocumentID != "" {
		return *src.DocumentID
	}
	return src.ID
}
