package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims are issued by the identity provider. Role is advisory; the stored user role wins.
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	ValidateToken(tokenString string) (*Claims, error)
}
