package api

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAuthService_RoundTrip(t *testing.T) {
	auth := NewAuthService(testSecret, "tollfee", time.Hour)

	token, err := auth.GenerateToken("gantry-1")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.GantryID != "gantry-1" || claims.Subject != "gantry-1" || claims.Issuer != "tollfee" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestAuthService_Rejects(t *testing.T) {
	auth := NewAuthService(testSecret, "tollfee", time.Hour)

	expired := NewAuthService(testSecret, "tollfee", -time.Minute)
	expiredToken, err := expired.GenerateToken("g1")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	otherIssuer := NewAuthService(testSecret, "someone-else", time.Hour)
	otherIssuerToken, err := otherIssuer.GenerateToken("g1")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{GantryID: "g1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "abc.def.ghi"},
		{"expired", expiredToken},
		{"wrong issuer", otherIssuerToken},
		{"unsigned", noneToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := auth.ValidateToken(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ValidateToken() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestAuthService_NoSecret(t *testing.T) {
	auth := NewAuthService("", "tollfee", time.Hour)
	if auth.Enabled() {
		t.Fatal("Enabled() = true without a secret")
	}
	if _, err := auth.GenerateToken("g1"); !errors.Is(err, ErrNoSecret) {
		t.Errorf("GenerateToken() error = %v, want ErrNoSecret", err)
	}
}
