package indexing

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/lewis4x4/SouthernCoal-sub001/internal/core"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/logging"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/metrics"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/models"
)

// contentSource is one ordered strategy for producing page text.
type contentSource struct {
	name string
	load func(ctx context.Context) ([]core.Page, error)
}

// assemblePages decides how the document's text is produced and runs the
// strategies first-match-wins:
//
//   - PDF, interactive caller: full page-aware extraction, falling back to
//     structured serialization if the extraction call fails.
//   - PDF, system/backfill caller: structured serialization only. The remote
//     extraction call risks blowing invocation time limits at backfill scale.
//   - everything else: structured serialization.
func (ix *Indexer) assemblePages(ctx context.Context, pr core.Principal, src *models.SourceDocument, payload *models.ExtractionPayload) ([]core.Page, error) {
	var sources []contentSource
	if isPDF(src) && !pr.System {
		sources = append(sources, contentSource{name: "pdf_extraction", load: func(ctx context.Context) ([]core.Page, error) {
			return ix.extractPDFPages(ctx, src)
		}})
	}
	sources = append(sources, contentSource{name: "structured_serialization", load: func(ctx context.Context) ([]core.Page, error) {
		return ix.serializePayload(src, payload)
	}})

	var lastErr error
	for i, s := range sources {
		pages, err := s.load(ctx)
		if err == nil && len(pages) > 0 {
			return pages, nil
		}
		if err != nil {
			lastErr = err
			logging.Warnw("content source failed", "source", s.name, "source_id", src.ID, "error", err)
			if i < len(sources)-1 {
				metrics.ExtractionFallbacks.Inc()
			}
		}
	}
	return nil, newError(KindNoContent, "no indexable content", lastErr)
}

// extractPDFPages mints a short-lived signed read URL for the stored bytes
// and asks the document-understanding model for every page's text.
func (ix *Indexer) extractPDFPages(ctx context.Context, src *models.SourceDocument) ([]core.Page, error) {
	url, err := ix.obj.PresignGetURL(ctx, src.Bucket, src.StoragePath, signedURLTTL)
	if err != nil {
		return nil, err
	}
	return ix.extractor.ExtractPages(ctx, url)
}

// serializePayload renders extracted_data as a single unpaginated page.
// Fidelity follows the payload's serialized size against the large-document
// threshold; tabular lab payloads are always summarized because they
// routinely carry thousands of rows.
func (ix *Indexer) serializePayload(src *models.SourceDocument, payload *models.ExtractionPayload) ([]core.Page, error) {
	if payload == nil {
		return nil, errors.New("no extraction payload")
	}
	view := payload.View()

	var text string
	if src.Category == models.CategoryLabData || len(src.ExtractedData) > ix.budget.LargeDocBytes {
		text = serializeSummary(view, ix.budget.SummaryByteBudget)
	} else {
		text = serializeFull(view)
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("extraction payload serialized to empty text")
	}
	return []core.Page{{Number: 0, Text: text}}, nil
}

func isPDF(src *models.SourceDocument) bool {
	return strings.EqualFold(path.Ext(src.StoragePath), ".pdf")
}
