package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenExpiration is the default lifetime of a gantry token.
const DefaultTokenExpiration = 365 * 24 * time.Hour

var (
	// ErrInvalidToken is returned when a JWT token is invalid.
	ErrInvalidToken = errors.New("invalid token")

	// ErrNoSecret is returned when tokens are requested without a signing secret.
	ErrNoSecret = errors.New("jwt secret is not configured")
)

// Claims represents the JWT claims carried by a toll gantry.
type Claims struct {
	GantryID string `json:"gantry_id"`
	jwt.RegisteredClaims
}

// AuthService issues and validates gantry tokens.
type AuthService struct {
	jwtSecret       []byte
	issuer          string
	tokenExpiration time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(jwtSecret, issuer string, tokenExpiration time.Duration) *AuthService {
	if tokenExpiration == 0 {
		tokenExpiration = DefaultTokenExpiration
	}

	return &AuthService{
		jwtSecret:       []byte(jwtSecret),
		issuer:          issuer,
		tokenExpiration: tokenExpiration,
	}
}

// Enabled reports whether a signing secret is configured.
func (s *AuthService) Enabled() bool {
	return len(s.jwtSecret) > 0
}

// GenerateToken generates a new JWT token for a gantry.
func (s *AuthService) GenerateToken(gantryID string) (string, error) {
	if !s.Enabled() {
		return "", ErrNoSecret
	}
	if gantryID == "" {
		return "", fmt.Errorf("gantry ID is required")
	}

	now := time.Now()
	claims := &Claims{
		GantryID: gantryID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   gantryID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signedToken, nil
}

// ValidateToken validates a JWT token and returns the claims.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	if !s.Enabled() {
		return nil, ErrNoSecret
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, opts...)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.GantryID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
