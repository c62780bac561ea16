package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewis4x4/SouthernCoal-sub001/internal/config"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/core"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/models"
)

type guardDB struct {
	profiles map[string]*models.Profile
}

func (d *guardDB) GetSourceDocument(ctx context.Context, id string) (*models.SourceDocument, error) {
	return nil, nil
}

func (d *guardDB) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	return d.profiles[id], nil
}

func (d *guardDB) GetDocumentOrg(ctx context.Context, documentID string) (string, error) {
	return "", nil
}

func (d *guardDB) ReplaceDocumentChunks(ctx context.Context, src *models.SourceDocument, chunks []models.DocumentChunk, audit *models.AuditEntry) error {
	return nil
}

func (d *guardDB) Close() error { return nil }

func guardSetup(t *testing.T) (http.Handler, *core.Principal) {
	t.Helper()
	cfg := &config.Config{InternalSecret: "internal-secret", JWTSecret: "jwt-secret"}
	db := &guardDB{profiles: map[string]*models.Profile{
		"user-1": {ID: "user-1", OrgID: "org-1"},
	}}

	var seen core.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pr, ok := core.PrincipalFrom(r.Context())
		require.True(t, ok)
		seen = pr
		w.WriteHeader(http.StatusOK)
	})
	return AccessGuard(cfg, db)(next), &seen
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func TestAccessGuardInternalSecret(t *testing.T) {
	h, seen := guardSetup(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/index", nil)
	req.Header.Set("X-Internal-Secret", "internal-secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, seen.System)
	assert.Empty(t, seen.OrgHint)
}

func TestAccessGuardWrongInternalSecret(t *testing.T) {
	h, _ := guardSetup(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/index", nil)
	req.Header.Set("X-Internal-Secret", "guess")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success": false, "error": "unauthorized"}`, rec.Body.String())
}

func TestAccessGuardBearerToken(t *testing.T) {
	h, seen := guardSetup(t)

	tok := signToken(t, "jwt-secret", jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/index", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, seen.System)
	assert.Equal(t, "user-1", seen.UserID)
	assert.Equal(t, "org-1", seen.OrgHint)
}

func TestAccessGuardBearerTokenWrongKey(t *testing.T) {
	h, _ := guardSetup(t)

	tok := signToken(t, "some-other-secret", jwt.MapClaims{"sub": "user-1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/index", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAccessGuardUnknownUser(t *testing.T) {
	h, _ := guardSetup(t)

	tok := signToken(t, "jwt-secret", jwt.MapClaims{"sub": "stranger"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/index", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAccessGuardNoCredential(t *testing.T) {
	h, _ := guardSetup(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/index", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
