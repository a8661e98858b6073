package auth

import (
	"errors"
	"os"

	"github.com/golang-jwt/jwt/v5"

	"github.com/example/task-api/domain/principal"
)

var (
	// ErrInvalidToken is returned when the token is missing, malformed,
	// or carries a bad signature.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired. The HTTP
	// layer must not distinguish this from ErrInvalidToken in responses;
	// the distinction exists for logging only.
	ErrExpiredToken = errors.New("token has expired")
)

// VerifierConfig holds token verification configuration. The secret is
// shared with the external identity provider that issues the tokens.
type VerifierConfig struct {
	SecretKey string
}

// DefaultVerifierConfig returns a default verifier configuration.
// In production, the secret key must be loaded from the environment.
func DefaultVerifierConfig() VerifierConfig {
	return VerifierConfig{
		SecretKey: "your-secret-key-change-in-production",
	}
}

// LoadVerifierConfig loads verifier configuration from environment
// variables, falling back to defaults.
func LoadVerifierConfig() VerifierConfig {
	config := DefaultVerifierConfig()
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		config.SecretKey = secret
	}
	return config
}

// TokenClaims are the claims this service reads from an inbound token.
// The subject claim carries the principal id; some issuers put it in a
// userId claim instead.
type TokenClaims struct {
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier validates inbound bearer tokens. It performs a purely
// local cryptographic check: no network calls and no revocation lookups
// (revocation is the identity provider's responsibility).
type TokenVerifier struct {
	config VerifierConfig
}

// NewTokenVerifier creates a new TokenVerifier with the given configuration.
func NewTokenVerifier(config VerifierConfig) *TokenVerifier {
	return &TokenVerifier{
		config: config,
	}
}

// Verify validates the token's signature and expiry and returns the
// principal it asserts.
func (v *TokenVerifier) Verify(tokenString string) (principal.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(v.config.SecretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return principal.Principal{}, ErrExpiredToken
		}
		return principal.Principal{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return principal.Principal{}, ErrInvalidToken
	}

	id := claims.Subject
	if id == "" {
		id = claims.UserID
	}
	if id == "" {
		return principal.Principal{}, ErrInvalidToken
	}

	return principal.Principal{
		ID:    id,
		Email: claims.Email,
	}, nil
}
