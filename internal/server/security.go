package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spherecast/spherecast/internal/httputil"
)

// DefaultScriptOrigins serve hls.js and three.js to the player page.
var DefaultScriptOrigins = []string{"https://cdn.jsdelivr.net"}

type SecurityConfig struct {
	BaseURL               string
	ScriptOrigins         []string
	AllowedFrameAncestors string
}

func securityHeaders(cfg SecurityConfig) func(http.Handler) http.Handler {
	strictTransport := cfg.BaseURL != "" && hasHTTPS(cfg.BaseURL)

	scriptSuffix := ""
	if len(cfg.ScriptOrigins) > 0 {
		scriptSuffix = " " + strings.Join(cfg.ScriptOrigins, " ")
	}

	frameAncestors := "'self'"
	if cfg.AllowedFrameAncestors != "" {
		frameAncestors += " " + cfg.AllowedFrameAncestors
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nonce := httputil.GenerateNonce()
			ctx := httputil.ContextWithNonce(r.Context(), nonce)

			w.Header().Set("Referrer-Policy", "no-referrer")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), fullscreen=(self), accelerometer=(self), gyroscope=(self)")

			// Streams come from arbitrary hosts: media and segment fetches
			// must reach any https origin, and hls.js feeds blob: URLs.
			csp := fmt.Sprintf(
				"default-src 'self'; img-src 'self' data: blob:; media-src 'self' blob: https:; script-src 'self' 'wasm-unsafe-eval' 'nonce-%s'%s; style-src 'self' 'nonce-%s'; connect-src 'self' https:; worker-src 'self' blob:; frame-ancestors %s;",
				nonce, scriptSuffix, nonce, frameAncestors,
			)
			w.Header().Set("Content-Security-Policy", csp)

			if strictTransport {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func hasHTTPS(baseURL string) bool {
	return strings.HasPrefix(baseURL, "https://")
}
