// internal/app/system/cleanupkey/cleanupkey.go

// Package cleanupkey guards the cleanup endpoints with a pre-shared secret.
// The verifier is built once at process start from configuration and
// injected into the cleanup feature; handlers never read the secret
// themselves.
package cleanupkey

import (
	"crypto/subtle"
	"net/http"

	"go.uber.org/zap"
)

// Header carrying the inbound credential.
const Header = "x-cleanup-api-key"

// Verifier compares inbound credentials against the configured secret in
// constant time.
type Verifier struct {
	key []byte
}

// NewVerifier creates a Verifier for the given secret. An empty secret
// yields a verifier that rejects everything, so a misconfigured deployment
// fails closed.
func NewVerifier(key string) *Verifier {
	return &Verifier{key: []byte(key)}
}

// Verify reports whether the presented credential matches the secret.
func (v *Verifier) Verify(presented string) bool {
	if len(v.key) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(v.key, []byte(presented)) == 1
}

// Middleware rejects requests lacking a valid credential with 401 before
// any handler work runs. Rejections produce no audit entry; they never
// touched the store.
func (v *Verifier) Middleware(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !v.Verify(r.Header.Get(Header)) {
				if log != nil {
					log.Warn("cleanup request rejected: bad or missing api key",
						zap.String("path", r.URL.Path),
						zap.String("remote_addr", r.RemoteAddr),
					)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","message":"missing or invalid cleanup api key"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
