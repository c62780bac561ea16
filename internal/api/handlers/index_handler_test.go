package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lewis4x4/SouthernCoal-sub001/internal/core"
)

func TestIndexRejectsMissingPrincipal(t *testing.T) {
	h := NewIndexHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/index", strings.NewReader(`{"queue_id":"q-1"}`))
	rec := httptest.NewRecorder()
	h.Index(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIndexRequiresQueueID(t *testing.T) {
	h := NewIndexHandler(nil)

	for _, body := range []string{`{}`, `{"queue_id":""}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/index", strings.NewReader(body))
		req = req.WithContext(core.WithPrincipal(req.Context(), core.Principal{UserID: "user-1"}))
		rec := httptest.NewRecorder()
		h.Index(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
		assert.JSONEq(t, `{"success": false, "error": "queue_id is required"}`, rec.Body.String())
	}
}
