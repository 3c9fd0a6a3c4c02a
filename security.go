package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

type contextKey string

const nonceKey contextKey = "csp-nonce"

func generateNonce() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		log.Error().Err(err).Msg("[ytgrid] generate csp nonce")
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

func nonceFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(nonceKey).(string); ok {
		return v
	}
	return ""
}

// securityHeaders sets a CSP that admits the YouTube IFrame API and its
// player frames but nothing else from outside.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce := generateNonce()
		ctx := context.WithValue(r.Context(), nonceKey, nonce)

		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")

		csp := fmt.Sprintf(
			"default-src 'self'; script-src 'self' 'nonce-%s' https://www.youtube.com https://s.ytimg.com; style-src 'self' 'nonce-%s'; frame-src https://www.youtube.com https://www.youtube-nocookie.com; img-src 'self' data: https://i.ytimg.com; connect-src 'self'; frame-ancestors 'self';",
			nonce, nonce,
		)
		w.Header().Set("Content-Security-Policy", csp)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
