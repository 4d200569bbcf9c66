package httputil

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
)

const nonceBytes = 16

type nonceKey struct{}

// GenerateNonce returns a fresh CSP nonce, or "" if the system random source
// fails.
func GenerateNonce() string {
	buf := make([]byte, nonceBytes)
	if _, err := rand.Read(buf); err != nil {
		slog.Error("csp nonce generation failed", "error", err)
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

func ContextWithNonce(ctx context.Context, nonce string) context.Context {
	return context.WithValue(ctx, nonceKey{}, nonce)
}

// NonceFromContext returns the request's nonce, or "" outside the security
// middleware.
func NonceFromContext(ctx context.Context) string {
	nonce, _ := ctx.Value(nonceKey{}).(string)
	return nonce
}
