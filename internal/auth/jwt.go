package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin = "admin"
	RoleTeam  = "team"

	issuer = "sports-auction"
)

var (
	jwtSecret []byte

	errNoSecret = errors.New("JWT secret not initialized")
)

// InitJWT sets the HS256 signing key
func InitJWT(secret string) {
	jwtSecret = []byte(secret)
}

// Claims identify the caller. TeamID is only set on team tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	TeamID string `json:"team_id,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) validRole() error {
	switch {
	case c.Role != RoleAdmin && c.Role != RoleTeam:
		return fmt.Errorf("unknown role %q", c.Role)
	case c.Role == RoleTeam && c.TeamID == "":
		return errors.New("team tokens need a team id")
	}
	return nil
}

// GenerateToken signs a token for userID. A non-positive ttl means 24h.
func GenerateToken(userID, role, teamID string, ttl time.Duration) (string, error) {
	if len(jwtSecret) == 0 {
		return "", errNoSecret
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		TeamID: teamID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if err := claims.validRole(); err != nil {
		return "", err
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks signature, expiry and issuer and returns the claims
func ValidateToken(tokenString string) (*Claims, error) {
	if len(jwtSecret) == 0 {
		return nil, errNoSecret
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return jwtSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if err := claims.validRole(); err != nil {
		return nil, err
	}
	return claims, nil
}
