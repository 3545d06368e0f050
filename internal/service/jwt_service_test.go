package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTService_SignParseAccess(t *testing.T) {
	svc := NewJWTService("secret", "persona-engine", 15*time.Minute)

	token, err := svc.SignAccessToken("u1")
	if err != nil {
		t.Fatalf("sign access: %v", err)
	}
	claims, err := svc.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims.UserID != "u1" || claims.Subject != "u1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTService_RejectsInvalidTokens(t *testing.T) {
	svc := NewJWTService("secret", "persona-engine", 15*time.Minute)

	t.Run("empty", func(t *testing.T) {
		if _, err := svc.ParseAccessToken("  "); !errors.Is(err, ErrJWTInvalid) {
			t.Fatalf("expected ErrJWTInvalid, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService("other", "persona-engine", 15*time.Minute)
		token, err := other.SignAccessToken("u1")
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		if _, err := svc.ParseAccessToken(token); !errors.Is(err, ErrJWTInvalid) {
			t.Fatalf("expected ErrJWTInvalid, got %v", err)
		}
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService("secret", "someone-else", 15*time.Minute)
		token, err := other.SignAccessToken("u1")
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		if _, err := svc.ParseAccessToken(token); !errors.Is(err, ErrJWTInvalid) {
			t.Fatalf("expected ErrJWTInvalid, got %v", err)
		}
	})

	t.Run("wrong token type", func(t *testing.T) {
		now := time.Now().UTC()
		claims := Claims{
			UserID:    "u1",
			TokenType: "refresh",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "persona-engine",
				Subject:   "u1",
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		if _, err := svc.ParseAccessToken(token); !errors.Is(err, ErrJWTInvalid) {
			t.Fatalf("expected ErrJWTInvalid, got %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		past := time.Now().UTC().Add(-time.Hour)
		claims := Claims{
			UserID:    "u1",
			TokenType: tokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "persona-engine",
				Subject:   "u1",
				IssuedAt:  jwt.NewNumericDate(past),
				ExpiresAt: jwt.NewNumericDate(past.Add(time.Minute)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		if _, err := svc.ParseAccessToken(token); !errors.Is(err, ErrJWTExpired) {
			t.Fatalf("expected ErrJWTExpired, got %v", err)
		}
	})

	t.Run("no secret", func(t *testing.T) {
		empty := NewJWTService("", "", 0)
		if _, err := empty.SignAccessToken("u1"); !errors.Is(err, ErrJWTInvalid) {
			t.Fatalf("expected ErrJWTInvalid on sign, got %v", err)
		}
		if _, err := empty.ParseAccessToken("a.b.c"); !errors.Is(err, ErrJWTInvalid) {
			t.Fatalf("expected ErrJWTInvalid on parse, got %v", err)
		}
	})
}
