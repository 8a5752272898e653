// Package auth resolves the acting user for each request. Token issuance
// and password hashing live here, isolated from domain code: services only
// ever see the resolved Actor.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Roles known to the system. Every user account carries exactly one.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RolePatient || role == RoleDoctor || role == RoleAdmin
}

// Actor is the resolved identity of the requesting user.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// Claims is the JWT payload for a session token.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// TokenIssuer signs and parses HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl}
}

// Issue returns a signed session token for the given user.
func (t *TokenIssuer) Issue(userID uuid.UUID, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		Role: role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse validates a session token and returns the actor it names.
func (t *TokenIssuer) Parse(tokenStr string) (Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return Actor{}, fmt.Errorf("invalid token: %w", err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Actor{}, fmt.Errorf("invalid token subject: %w", err)
	}
	if !ValidRole(claims.Role) {
		return Actor{}, fmt.Errorf("invalid token role %q", claims.Role)
	}

	return Actor{ID: id, Role: claims.Role}, nil
}
