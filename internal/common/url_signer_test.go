package common

import (
	"strings"
	"testing"
	"time"

	"taiwan-opendata/landsync/internal/constants"
)

func newTestSigner() *URLSignerService {
	return NewURLSignerService([]byte("test-secret"), NewCacheService(60, 120))
}

func TestURLSigner_SignAndValidate(t *testing.T) {
	signer := newTestSigner()

	tokenString, err := signer.GenerateExportToken(constants.CityTainan, 15*time.Minute)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	token, err := signer.ValidateToken(tokenString)
	if err != nil {
		t.Fatalf("Expected valid token, got %v", err)
	}
	if token.City != constants.CityTainan {
		t.Errorf("Expected city claim %s, got %s", constants.CityTainan, token.City)
	}
	if token.TokenID == "" {
		t.Error("Expected a token id")
	}
	if !token.ExpiresAt.After(time.Now()) {
		t.Error("Expected a future expiry")
	}
}

func TestURLSigner_TokenIsSingleUse(t *testing.T) {
	signer := newTestSigner()

	tokenString, err := signer.GenerateExportToken("", 15*time.Minute)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := signer.ValidateToken(tokenString); err != nil {
		t.Fatalf("Expected first use to pass, got %v", err)
	}

	_, err = signer.ValidateToken(tokenString)
	if err == nil {
		t.Fatal("Expected second use to fail")
	}
	if !strings.Contains(err.Error(), "already used") {
		t.Errorf("Expected already-used error, got %v", err)
	}
}

func TestURLSigner_ExpiredTokenRejected(t *testing.T) {
	signer := newTestSigner()

	tokenString, err := signer.GenerateExportToken(constants.CityTaoyuan, -time.Minute)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := signer.ValidateToken(tokenString); err == nil {
		t.Fatal("Expected expired token to be rejected")
	}
}

func TestURLSigner_WrongSecretRejected(t *testing.T) {
	signer := newTestSigner()
	other := NewURLSignerService([]byte("different-secret"), NewCacheService(60, 120))

	tokenString, err := signer.GenerateExportToken(constants.CityKaohsiung, 15*time.Minute)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := other.ValidateToken(tokenString); err == nil {
		t.Fatal("Expected token signed with another secret to be rejected")
	}
}

func TestURLSigner_GarbageTokenRejected(t *testing.T) {
	signer := newTestSigner()

	if _, err := signer.ValidateToken("not.a.jwt"); err == nil {
		t.Fatal("Expected malformed token to be rejected")
	}
}
