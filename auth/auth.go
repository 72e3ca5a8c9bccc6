// Package auth issues and verifies bearer tokens and carries the
// authenticated identity through request contexts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jobzee/jobzee/httpx"
	"github.com/jobzee/jobzee/internal/log"
)

type ctxKey string

const claimsCtxKey = ctxKey("claims")

// TokenType distinguishes short-lived access tokens from refresh tokens.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token expired")
	ErrWrongTokenType = errors.New("wrong token type")
)

// Claims is the JWT payload.
type Claims struct {
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CompanyID uint      `json:"company_id,omitempty"`
	Type      TokenType `json:"type"`
	jwt.RegisteredClaims
}

// Subject is the identity a token is issued for.
type Subject struct {
	UserID    uint
	Email     string
	Role      string
	CompanyID uint
}

// Token is a signed token with its metadata.
type Token struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

// TokenIssuer signs and parses HS256 tokens.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	now        func() time.Time
}

// NewTokenIssuer creates an issuer with the given secret and lifetimes.
func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		issuer:     "jobzee",
		now:        time.Now,
	}
}

// AccessTTL is the lifetime of access tokens.
func (i *TokenIssuer) AccessTTL() time.Duration { return i.accessTTL }

// Issue signs a token of the given type for s.
func (i *TokenIssuer) Issue(s Subject, typ TokenType) (Token, error) {
	ttl := i.accessTTL
	if typ == RefreshToken {
		ttl = i.refreshTTL
	}
	now := i.now()
	exp := now.Add(ttl)
	id := uuid.NewString()
	claims := Claims{
		UserID:    s.UserID,
		Email:     s.Email,
		Role:      s.Role,
		CompanyID: s.CompanyID,
		Type:      typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Issuer:    i.issuer,
			Subject:   fmt.Sprint(s.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Value: signed, ID: id, ExpiresAt: exp}, nil
}

// Parse verifies signature, expiry and type.
func (i *TokenIssuer) Parse(raw string, want TokenType) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Type != want {
		return nil, ErrWrongTokenType
	}
	if claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// WithClaims stores the verified claims in ctx.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, c)
}

// ClaimsFromContext returns the verified claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsCtxKey).(*Claims)
	return c, ok && c != nil
}

// UserIDFromContext extracts user id.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	c, ok := ClaimsFromContext(ctx)
	if !ok || c.UserID == 0 {
		return 0, false
	}
	return c.UserID, true
}

// Verifier validates an access token beyond its signature (revocation,
// disabled accounts).
type Verifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*Claims, error)
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Middleware attaches claims to the request context when a valid bearer token is present.
func Middleware(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := BearerToken(r); raw != "" {
				if claims, err := v.VerifyAccessToken(r.Context(), raw); err == nil {
					ctx := log.ContextWithUserID(WithClaims(r.Context(), claims), claims.UserID)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns 401 JSON if the request carries no verified identity.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); !ok {
			w.Header().Set("WWW-Authenticate", `Bearer realm="jobzee"`)
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
