package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"infinite-experiment/contactimport/internal/constants"
)

const tokenIssuer = "contactimport"

var (
	ErrMissingSecret = errors.New("token secret is empty")
	ErrInvalidToken  = errors.New("invalid token")
)

// TokenSigner issues and checks HMAC signed API tokens
type TokenSigner struct {
	secretKey []byte
}

// NewTokenSigner creates a new token signer
func NewTokenSigner(secret string) (*TokenSigner, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &TokenSigner{secretKey: []byte(secret)}, nil
}

// Issue signs a token for subject with the given role
func (s *TokenSigner) Issue(subject string, role constants.Role, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("subject is required")
	}
	if constants.ParseRole(role.String()) == "" {
		return "", fmt.Errorf("unknown role %q", role)
	}

	now := time.Now()
	claims := &JWTClaims{
		RoleValue: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Parse validates the signature, expiry and issuer of a token
func (s *TokenSigner) Parse(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.RegisteredClaims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if constants.ParseRole(claims.RoleValue.String()) == "" {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.RoleValue)
	}
	return claims, nil
}
