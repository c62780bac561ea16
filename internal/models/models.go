package models

import (
	"encoding/json"
	"time"
)

// Source-document statuses owned by the upload/parsing subsystem. Indexing
// only accepts parsed or embedded inputs and writes embedded or failed.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusParsed     = "parsed"
	StatusEmbedded   = "embedded"
	StatusFailed     = "failed"
)

// Document categories produced by the upstream classifier.
const (
	CategoryPermit  = "permit"
	CategoryLabData = "lab_data"
	CategoryDMR     = "dmr"
	CategoryOther   = "other"
)

// SourceDocument is a row in the processing queue: an uploaded file that has
// already been classified and parsed upstream. Indexing reads it and
// transitions its status; everything else about it is owned externally.
type SourceDocument struct {
	ID            string          `db:"id" json:"id"`
	Bucket        string          `db:"bucket" json:"bucket"`
	StoragePath   string          `db:"storage_path" json:"storage_path"`
	FileName      string          `db:"file_name" json:"file_name"`
	Category      string          `db:"category" json:"category"`
	StateCode     string          `db:"state_code" json:"state_code"`
	UploadedBy    *string         `db:"uploaded_by" json:"uploaded_by"`
	DocumentID    *string         `db:"document_id" json:"document_id"` // canonical document, once promoted
	Status        string          `db:"status" json:"status"`
	ExtractedData json.RawMessage `db:"extracted_data" json:"extracted_data"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// DocumentChunk is one indexed, embeddable unit of document text.
// (document_id, chunk_index) is unique; index 0 always holds the metadata
// summary, never raw page content.
type DocumentChunk struct {
	ID           string    `db:"id" json:"id"`
	DocumentID   *string   `db:"document_id" json:"document_id"`
	SourceID     string    `db:"source_id" json:"source_id"` // queue row linkage
	OrgID        string    `db:"org_id" json:"org_id"`
	ChunkIndex   int       `db:"chunk_index" json:"chunk_index"`
	Content      string    `db:"content" json:"content"`
	CharCount    int       `db:"char_count" json:"char_count"`
	PageNumber   int       `db:"page_number" json:"page_number"` // 0 for summary/non-paginated content
	SectionLabel *string   `db:"section_label" json:"section_label"`
	Category     string    `db:"category" json:"category"`
	PermitNumber *string   `db:"permit_number" json:"permit_number"`
	Embedding    []float32 `db:"embedding" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Document is the canonical, org-owned record a queue item may be linked to.
type Document struct {
	ID        string    `db:"id" json:"id"`
	OrgID     string    `db:"org_id" json:"org_id"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Profile maps an authenticated user to their organization.
type Profile struct {
	ID        string    `db:"id" json:"id"`
	OrgID     string    `db:"org_id" json:"org_id"`
	Email     string    `db:"email" json:"email"`
	FullName  string    `db:"full_name" json:"full_name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AuditEntry records one interactively-triggered indexing run.
// System/backfill runs are deliberately not audited.
type AuditEntry struct {
	ID         string    `db:"id" json:"id"`
	ActorID    string    `db:"actor_id" json:"actor_id"`
	OrgID      string    `db:"org_id" json:"org_id"`
	Action     string    `db:"action" json:"action"`
	SourceID   string    `db:"source_id" json:"source_id"`
	ChunkCount int       `db:"chunk_count" json:"chunk_count"`
	PageCount  int       `db:"page_count" json:"page_count"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
