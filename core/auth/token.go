package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"CurrentFM/model"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer   = "current-api"
	tokenAudience = "current-web"
	tokenLifetime = 7 * 24 * time.Hour
)

// ErrNoSecret reports that no signing secret is configured.
var ErrNoSecret = errors.New("JWT secret not configured")

// Claims are the JWT claims issued for a user session.
type Claims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// SecretProvider supplies the token signing secret. The secret is loaded
// lazily on first use and cached until Invalidate is called, which forces
// a reload on the next use. Inject one provider into every component that
// signs or verifies; there is no ambient global.
type SecretProvider struct {
	mu     sync.Mutex
	loaded bool
	secret []byte
	load   func() ([]byte, error)
}

// NewSecretProvider creates a provider around a load function.
func NewSecretProvider(load func() ([]byte, error)) *SecretProvider {
	return &SecretProvider{load: load}
}

// StaticSecret creates a provider that always yields the given secret.
func StaticSecret(secret string) *SecretProvider {
	return NewSecretProvider(func() ([]byte, error) {
		if secret == "" {
			return nil, ErrNoSecret
		}
		return []byte(secret), nil
	})
}

// Secret returns the signing secret, loading it if needed.
func (p *SecretProvider) Secret() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.loaded {
		secret, err := p.load()
		if err != nil {
			return nil, err
		}
		p.secret = secret
		p.loaded = true
	}
	return p.secret, nil
}

// Invalidate drops the cached secret so the next use reloads it.
func (p *SecretProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loaded = false
	p.secret = nil
}

// GenerateToken issues an HS256 session token for a user.
func GenerateToken(provider *SecretProvider, user *model.User) (string, error) {
	secret, err := provider.Secret()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies a session token and returns its claims.
func ParseToken(provider *SecretProvider, tokenString string) (*Claims, error) {
	secret, err := provider.Secret()
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return secret, nil
		},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithLeeway(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
