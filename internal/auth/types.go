package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// supabase role allowed to call the webhook and operator endpoints
	RoleServiceRole = "service_role"

	// header carrying the hex HMAC-SHA256 of the raw body
	HeaderSignature = "X-Webhook-Signature"
)

var (
	ErrMissingSecret = errors.New("jwt secret not set")
	ErrInvalidToken  = errors.New("invalid token")
	ErrForbiddenRole = errors.New("token role is not service_role")
)

// claims carried by Supabase-issued JWTs
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
