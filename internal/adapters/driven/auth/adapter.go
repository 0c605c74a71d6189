package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/custodia-labs/creator-bridge/internal/core/domain"
	"github.com/custodia-labs/creator-bridge/internal/core/ports/driven"
)

// Ensure Adapter implements AuthAdapter
var _ driven.AuthAdapter = (*Adapter)(nil)

// Issuer is the iss claim of platform session tokens.
const Issuer = "creator-bridge"

// sessionClaims wraps domain.TokenClaims for JWT compatibility
type sessionClaims struct {
	UserID    string      `json:"user_id"`
	Email     string      `json:"email,omitempty"`
	Role      domain.Role `json:"role"`
	SessionID string      `json:"session_id"`
	jwt.RegisteredClaims
}

// Adapter signs and verifies HS256 session tokens
type Adapter struct {
	secret []byte
	parser *jwt.Parser
}

// NewAdapter creates a new auth adapter with the given JWT secret
func NewAdapter(secret string) *Adapter {
	return &Adapter{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(Issuer),
			jwt.WithLeeway(30*time.Second),
		),
	}
}

// GenerateToken creates a signed JWT from domain claims
func (a *Adapter) GenerateToken(claims *domain.TokenClaims) (string, error) {
	sc := sessionClaims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Role:      claims.Role,
		SessionID: claims.SessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   claims.UserID,
			IssuedAt:  jwt.NewNumericDate(time.Unix(claims.IssuedAt, 0)),
			ExpiresAt: jwt.NewNumericDate(time.Unix(claims.ExpiresAt, 0)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sc).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a JWT and extracts domain claims.
// Expired tokens return domain.ErrTokenExpired, anything else invalid
// returns domain.ErrTokenInvalid.
func (a *Adapter) ParseToken(tokenString string) (*domain.TokenClaims, error) {
	var sc sessionClaims
	token, err := a.parser.ParseWithClaims(tokenString, &sc, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	if !token.Valid || sc.SessionID == "" || sc.ExpiresAt == nil {
		return nil, domain.ErrTokenInvalid
	}

	claims := &domain.TokenClaims{
		UserID:    sc.UserID,
		Email:     sc.Email,
		Role:      sc.Role,
		SessionID: sc.SessionID,
		ExpiresAt: sc.ExpiresAt.Unix(),
	}
	if sc.IssuedAt != nil {
		claims.IssuedAt = sc.IssuedAt.Unix()
	}
	return claims, nil
}
