package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cartlyhq/cartly-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "cartly",
		AccessTTLMinutes:  30,
		RefreshTTLMinutes: 60 * 24,
	}
}

func TestMintAndParseToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()
	customerID := uuid.New()

	payload := TokenPayload{
		CustomerID: customerID,
		Email:      "jane@example.com",
		Role:       "customer",
	}

	token, err := MintToken(cfg, now, TokenKindAccess, payload)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	claims, err := ParseToken(cfg, token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	if claims.CustomerID != customerID {
		t.Fatalf("expected customer_id %s, got %s", customerID, claims.CustomerID)
	}
	if claims.Email != "jane@example.com" {
		t.Fatalf("unexpected email %s", claims.Email)
	}
	if claims.Kind != TokenKindAccess {
		t.Fatalf("unexpected kind %s", claims.Kind)
	}
	if claims.Subject != customerID.String() {
		t.Fatalf("expected sub %s, got %s", customerID, claims.Subject)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatal("expected a generated jti")
	}

	exp := now.Add(cfg.AccessTTL())
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp.UTC(), claims.ExpiresAt.UTC(), diff)
	}
}

func TestMintRefreshTokenUsesRefreshTTL(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()

	token, err := MintToken(cfg, now, TokenKindRefresh, TokenPayload{CustomerID: uuid.New()})
	if err != nil {
		t.Fatalf("mint refresh token: %v", err)
	}

	claims, err := ParseToken(cfg, token)
	if err != nil {
		t.Fatalf("parse refresh token: %v", err)
	}
	if claims.Kind != TokenKindRefresh {
		t.Fatalf("unexpected kind %s", claims.Kind)
	}

	exp := now.Add(cfg.RefreshTTL())
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected refresh exp roughly %v, got %v", exp.UTC(), claims.ExpiresAt.UTC())
	}
}

func TestParseTokenInvalidSignature(t *testing.T) {
	cfg := testJWTConfig()

	token, err := MintToken(cfg, time.Now(), TokenKindAccess, TokenPayload{CustomerID: uuid.New()})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	if _, err := ParseToken(cfg, token+"x"); err == nil {
		t.Fatal("expected invalid signature error")
	}
}

func TestParseTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().Add(-2 * time.Hour)

	token, err := MintToken(cfg, now, TokenKindAccess, TokenPayload{CustomerID: uuid.New()})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	_, err = ParseToken(cfg, token)
	if err == nil {
		t.Fatal("expected expiration error")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMintTokenMissingCustomer(t *testing.T) {
	if _, err := MintToken(testJWTConfig(), time.Now(), TokenKindAccess, TokenPayload{}); err == nil {
		t.Fatal("expected missing customer error")
	}
}

func TestMintTokenUnknownKind(t *testing.T) {
	if _, err := MintToken(testJWTConfig(), time.Now(), TokenKind("weird"), TokenPayload{CustomerID: uuid.New()}); err == nil {
		t.Fatal("expected unknown kind error")
	}
}
