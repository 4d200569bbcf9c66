// Package session gives each browser an anonymous client ID carried in a
// signed cookie.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CookieName     = "spherecast_client"
	CookieDuration = 365 * 24 * time.Hour
	tokenType      = "client"
)

type contextKey struct{}

type issuedKey struct{}

type Claims struct {
	ClientID  string `json:"cid"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

func GenerateToken(secret, clientID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		ClientID:  clientID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(CookieDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   clientID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("invalid token type %q", claims.TokenType)
	}
	if _, err := uuid.Parse(claims.ClientID); err != nil {
		return nil, fmt.Errorf("invalid client id: %w", err)
	}
	return claims, nil
}

type Manager struct {
	secret        string
	secureCookies bool
}

func NewManager(secret string, secureCookies bool) *Manager {
	return &Manager{secret: secret, secureCookies: secureCookies}
}

// Middleware puts the client ID in the request context, issuing a new one
// when the cookie is missing or invalid.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(CookieName); err == nil {
			if claims, err := ValidateToken(m.secret, cookie.Value); err == nil {
				next.ServeHTTP(w, r.WithContext(ContextWithClientID(r.Context(), claims.ClientID)))
				return
			}
		}

		clientID := uuid.NewString()
		token, err := GenerateToken(m.secret, clientID)
		if err != nil {
			slog.Error("failed to sign client token", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			Secure:   m.secureCookies,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(CookieDuration / time.Second),
		})
		ctx := context.WithValue(ContextWithClientID(r.Context(), clientID), issuedKey{}, true)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ContextWithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, contextKey{}, clientID)
}

func ClientIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// Issued reports whether the client ID in ctx was minted for this request
// rather than read from a cookie.
func Issued(ctx context.Context) bool {
	issued, _ := ctx.Value(issuedKey{}).(bool)
	return issued
}
