package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lewis4x4/SouthernCoal-sub001/internal/core"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/core/indexing"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/logging"
)

type IndexHandler struct {
	indexer *indexing.Indexer
}

func NewIndexHandler(indexer *indexing.Indexer) *IndexHandler {
	return &IndexHandler{indexer: indexer}
}

type indexRequest struct {
	QueueID string `json:"queue_id"`
}

type indexResponse struct {
	Success               bool   `json:"success"`
	DocumentID            string `json:"documentId"`
	ChunkCount            int    `json:"chunkCount"`
	PageCount             int    `json:"pageCount"`
	TruncatedForEmbedding bool   `json:"truncated_for_embedding,omitempty"`
	PrecapChunkCount      int    `json:"precap_chunk_count,omitempty"`
	MaxChunksPerDoc       int    `json:"max_chunks_per_doc"`
}

// Index triggers the pipeline for one queue item.
func (h *IndexHandler) Index(w http.ResponseWriter, r *http.Request) {
	pr, ok := core.PrincipalFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req indexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.QueueID == "" {
		writeError(w, http.StatusBadRequest, "queue_id is required")
		return
	}

	res, err := h.indexer.Index(r.Context(), pr, req.QueueID)
	if err != nil {
		status, msg := indexing.ClassifyHTTP(err)
		if status >= http.StatusInternalServerError {
			logging.Errorw("indexing run failed", "queue_id", req.QueueID, "error", err)
		}
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, indexResponse{
		Success:               true,
		DocumentID:            res.DocumentID,
		ChunkCount:            res.ChunkCount,
		PageCount:             res.PageCount,
		TruncatedForEmbedding: res.Truncated,
		PrecapChunkCount:      res.PrecapChunkCount,
		MaxChunksPerDoc:       res.MaxChunksPerDoc,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}
