package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/lewis4x4/SouthernCoal-sub001/internal/config"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/core"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (core.DbClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *DatabaseClient) GetSourceDocument(ctx context.Context, id string) (*models.SourceDocument, error) {
	const q = `
		SELECT id, bucket, storage_path, file_name, category, state_code,
		       uploaded_by, document_id, status, extracted_data, created_at, updated_at
		FROM document_queue
		WHERE id = $1
	`
	var d models.SourceDocument
	err := c.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.Bucket, &d.StoragePath, &d.FileName, &d.Category, &d.StateCode,
		&d.UploadedBy, &d.DocumentID, &d.Status, &d.ExtractedData, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *DatabaseClient) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	const q = `
		SELECT id, org_id, email, full_name, created_at
		FROM profiles
		WHERE id = $1
	`
	var p models.Profile
	err := c.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.OrgID, &p.Email, &p.FullName, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *DatabaseClient) GetDocumentOrg(ctx context.Context, documentID string) (string, error) {
	const q = `SELECT org_id FROM documents WHERE id = $1`
	var orgID string
	err := c.db.QueryRowContext(ctx, q, documentID).Scan(&orgID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return orgID, nil
}

// ReplaceDocumentChunks swaps the document's entire chunk set in one
// transaction: take an advisory lock keyed on the document, delete the prior
// set, insert the new rows, mark the source embedded, and append the audit
// entry when one is supplied. Two overlapping re-index runs of the same
// document serialize on the lock, so the index never shows a partial set.
func (c *DatabaseClient) ReplaceDocumentChunks(ctx context.Context, src *models.SourceDocument, chunks []models.DocumentChunk, audit *models.AuditEntry) error {
	if src == nil {
		return errors.New("nil source document")
	}

	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	lockKey := src.ID
	if src.DocumentID != nil && *src.DocumentID != "" {
		lockKey = *src.DocumentID
	}
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}

	// Full replace, not a merge: stale fragments from a prior run must not
	// survive. Delete by canonical document when one exists, otherwise by
	// the queue row linkage.
	if src.DocumentID != nil && *src.DocumentID != "" {
		if _, err := tx.ExecContext(ctx, `DELETE FROM document_chunks WHERE document_id = $1`, *src.DocumentID); err != nil {
			return fmt.Errorf("delete prior chunks: %w", err)
		}
	} else {
		if _, err := tx.ExecContext(ctx, `DELETE FROM document_chunks WHERE source_id = $1`, src.ID); err != nil {
			return fmt.Errorf("delete prior chunks: %w", err)
		}
	}

	const q = `
		INSERT INTO document_chunks
			(id, document_id, source_id, org_id, chunk_index, content, char_count,
			 page_number, section_label, category, permit_number, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (source_id, chunk_index) DO UPDATE SET
			content = EXCLUDED.content,
			char_count = EXCLUDED.char_count,
			page_number = EXCLUDED.page_number,
			section_label = EXCLUDED.section_label,
			permit_number = EXCLUDED.permit_number,
			embedding = EXCLUDED.embedding
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range chunks {
		ch := &chunks[i]
		vec := pgvector.NewVector(ch.Embedding)
		if _, err := stmt.ExecContext(ctx,
			ch.ID, ch.DocumentID, ch.SourceID, ch.OrgID, ch.ChunkIndex, ch.Content, ch.CharCount,
			ch.PageNumber, ch.SectionLabel, ch.Category, ch.PermitNumber, vec,
		); err != nil {
			return fmt.Errorf("insert chunk %d: %w", ch.ChunkIndex, err)
		}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE document_queue SET status = $2, updated_at = now() WHERE id = $1`,
		src.ID, models.StatusEmbedded)
	if err != nil {
		return fmt.Errorf("transition source status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("source document not found: %s", src.ID)
	}

	if audit != nil {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO audit_log (id, actor_id, org_id, action, source_id, chunk_count, page_count)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			audit.ID, audit.ActorID, audit.OrgID, audit.Action, audit.SourceID, audit.ChunkCount, audit.PageCount,
		); err != nil {
			return fmt.Errorf("append audit entry: %w", err)
		}
	}

	return tx.Commit()
}
