package web

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token audiences. A business token never opens a user route and vice versa.
const (
	AudienceBusiness = "business"
	AudienceUser     = "user"
)

// TokenStore pins the live token per principal; signing in again rotates the
// binding and strands every earlier token.
type TokenStore interface {
	Bind(ctx context.Context, principal, tokenID string, ttl time.Duration) error
	Valid(ctx context.Context, principal, tokenID string) (bool, error)
}

// AuthManager mints and verifies the HS256 bearer tokens both API halves use.
type AuthManager struct {
	secret []byte
	ttl    time.Duration
	store  TokenStore
}

func NewAuthManager(secret string, ttl time.Duration, store TokenStore) *AuthManager {
	return &AuthManager{secret: []byte(secret), ttl: ttl, store: store}
}

type Claims struct {
	Email    string `json:"email"`
	Audience string `json:"aud_kind"`
	jwt.RegisteredClaims
}

// Mint issues a fresh token and binds it as the principal's only live one.
func (a *AuthManager) Mint(ctx context.Context, email, audience string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:    email,
		Audience: audience,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", err
	}
	if err := a.store.Bind(ctx, principal(audience, email), claims.ID, a.ttl); err != nil {
		return "", err
	}
	return signed, nil
}

// ParseFromRequest extracts and verifies the bearer token, including the
// rotation check against the token store.
func (a *AuthManager) ParseFromRequest(r *http.Request, audience string) (*Claims, error) {
	hdr := r.Header.Get("Authorization")
	if hdr == "" || !strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
		return nil, errors.New("missing token")
	}
	claims, err := a.parse(strings.TrimSpace(hdr[7:]))
	if err != nil {
		return nil, err
	}
	if claims.Audience != audience {
		return nil, errors.New("wrong token audience")
	}
	ok, err := a.store.Valid(r.Context(), principal(audience, claims.Email), claims.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("token superseded")
	}
	return claims, nil
}

func (a *AuthManager) parse(tok string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func principal(audience, email string) string {
	return audience + ":" + email
}
