package middleware

import (
	"net/http"
	"strings"

	"infinite-experiment/contactimport/internal/auth"
	"infinite-experiment/contactimport/internal/constants"
	"infinite-experiment/contactimport/internal/logging"
)

// AuthMiddleware requires a bearer token signed by signer. With a nil signer
// every request runs as the anonymous admin, which is how local setups work.
func AuthMiddleware(signer *auth.TokenSigner) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if signer == nil {
				ctx := auth.SetUserClaims(r.Context(), auth.AnonymousClaims{})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				respondWithError(w, http.StatusUnauthorized, constants.ErrCodeUnauthorized)
				return
			}

			claims, err := signer.Parse(strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")))
			if err != nil {
				logging.Debug("Rejected bearer token",
					"request_id", auth.GetRequestID(r.Context()),
					"error", err,
				)
				respondWithError(w, http.StatusUnauthorized, constants.ErrCodeUnauthorized)
				return
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects callers whose token role ranks below role
func RequireRole(role constants.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetUserClaims(r.Context())
			if claims == nil {
				respondWithError(w, http.StatusUnauthorized, constants.ErrCodeUnauthorized)
				return
			}
			if !claims.HasRole(role) {
				respondWithError(w, http.StatusForbidden, constants.ErrCodeForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
