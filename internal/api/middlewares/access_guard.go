package middlewares

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lewis4x4/SouthernCoal-sub001/internal/config"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/core"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/logging"
)

const internalSecretHeader = "X-Internal-Secret"

// AccessGuard authorizes a request through one of two credential paths and
// attaches the resulting principal to the context.
//
// Path A, shared-secret header: authorizes a system/backfill actor with no
// caller identity and no tenant hint, so bulk re-indexing can run without a
// per-user session. Path B, bearer token: validated against the JWT secret;
// the caller's organization is looked up from their profile. Any failure is
// answered with a generic unauthorized; the detailed reason is logged, not
// echoed back.
func AccessGuard(cfg *config.Config, db core.DbClient) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret := r.Header.Get(internalSecretHeader); secret != "" {
				if cfg.InternalSecret != "" &&
					subtle.ConstantTimeCompare([]byte(secret), []byte(cfg.InternalSecret)) == 1 {
					ctx := core.WithPrincipal(r.Context(), core.Principal{System: true})
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				logging.Warnw("internal secret mismatch", "path", r.URL.Path)
				unauthorized(w)
				return
			}

			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				unauthorized(w)
				return
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil || !token.Valid {
				logging.Warnw("bearer token rejected", "path", r.URL.Path, "error", err)
				unauthorized(w)
				return
			}

			userID := claimString(claims, "sub")
			if userID == "" {
				userID = claimString(claims, "user_id")
			}
			if userID == "" {
				unauthorized(w)
				return
			}

			prof, err := db.GetProfile(r.Context(), userID)
			if err != nil || prof == nil {
				logging.Warnw("profile lookup failed for bearer caller", "user_id", userID, "error", err)
				unauthorized(w)
				return
			}

			ctx := core.WithPrincipal(r.Context(), core.Principal{UserID: userID, OrgHint: prof.OrgID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func claimString(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "unauthorized"})
}
