package core

import (
	"context"
	"time"

	"github.com/lewis4x4/SouthernCoal-sub001/internal/models"
)

// DbClient defines the persistence operations the indexing pipeline needs.
// It abstracts Postgres/pgvector so higher layers never depend on a specific DB.
type DbClient interface {
	GetSourceDocument(ctx context.Context, id string) (*models.SourceDocument, error)
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	GetDocumentOrg(ctx context.Context, documentID string) (string, error)

	// ReplaceDocumentChunks atomically replaces the document's entire chunk
	// set, transitions the source row to embedded, and (when audit is
	// non-nil) appends the audit entry. All or nothing.
	ReplaceDocumentChunks(ctx context.Context, src *models.SourceDocument, chunks []models.DocumentChunk, audit *models.AuditEntry) error

	Close() error
}

// ObjectClient defines interactions with S3 or any object storage.
// The indexing pipeline is read-only: it only ever mints short-lived
// signed read URLs for the document-understanding model.
type ObjectClient interface {
	PresignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}
