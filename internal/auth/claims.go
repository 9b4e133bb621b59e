package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"infinite-experiment/contactimport/internal/constants"
)

// Claim sources
const (
	SourceJWT       = "JWT"
	SourceAnonymous = "ANONYMOUS"
)

// UserClaims is what handlers know about the caller
type UserClaims interface {
	Subject() string
	Role() constants.Role
	Source() string
	HasRole(required constants.Role) bool
}

// JWTClaims is the payload of an API token
type JWTClaims struct {
	RoleValue constants.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *JWTClaims) Subject() string      { return c.RegisteredClaims.Subject }
func (c *JWTClaims) Role() constants.Role { return c.RoleValue }
func (c *JWTClaims) Source() string       { return SourceJWT }
func (c *JWTClaims) HasRole(required constants.Role) bool {
	return c.RoleValue.Allows(required)
}

// AnonymousClaims are attached when the server runs without a JWT secret
type AnonymousClaims struct{}

func (AnonymousClaims) Subject() string                { return "anonymous" }
func (AnonymousClaims) Role() constants.Role           { return constants.RoleAdmin }
func (AnonymousClaims) Source() string                 { return SourceAnonymous }
func (AnonymousClaims) HasRole(_ constants.Role) bool { return true }
