package security

import (
	"testing"
	"time"
)

func TestIssueAndValidate(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider() err = %v", err)
	}

	token, expiresAt, err := p.Issue("member-123")
	if err != nil {
		t.Fatalf("Issue() err = %v, want nil", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Error("expiresAt should be in the future")
	}

	memberID, err := p.Validate(token)
	if err != nil {
		t.Fatalf("Validate() err = %v, want nil", err)
	}
	if memberID != "member-123" {
		t.Errorf("memberID = %q, want member-123", memberID)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider() err = %v", err)
	}
	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := p.Validate(token); err == nil {
			t.Errorf("Validate(%q) err = nil, want error", token)
		}
	}
}

func TestValidateRejectsWrongIssuerAndAudience(t *testing.T) {
	signer, err := ParsePrivateKey(testPrivateKeyPEM)
	if err != nil {
		t.Fatalf("parse private key: %v", err)
	}
	pub, err := ParsePublicKey(testPublicKeyPEM)
	if err != nil {
		t.Fatalf("parse public key: %v", err)
	}

	other := NewTokenProvider(signer, pub, "other-issuer", "other-audience", time.Minute)
	token, _, err := other.Issue("member-123")
	if err != nil {
		t.Fatalf("Issue() err = %v", err)
	}

	p := NewTokenProvider(signer, pub, "test-issuer", "test-audience", time.Minute)
	if _, err := p.Validate(token); err == nil {
		t.Error("token with foreign issuer/audience validated, want error")
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	signer, err := ParsePrivateKey(testPrivateKeyPEM)
	if err != nil {
		t.Fatalf("parse private key: %v", err)
	}
	pub, err := ParsePublicKey(testPublicKeyPEM)
	if err != nil {
		t.Fatalf("parse public key: %v", err)
	}
	p := NewTokenProvider(signer, pub, "test-issuer", "test-audience", -time.Minute)
	token, _, err := p.Issue("member-123")
	if err != nil {
		t.Fatalf("Issue() err = %v", err)
	}
	if _, err := p.Validate(token); err == nil {
		t.Error("expired token validated, want error")
	}
}

func TestHasherRoundTrip(t *testing.T) {
	h := NewHasher(4)
	hash, err := h.Hash([]byte("correct horse battery"))
	if err != nil {
		t.Fatalf("Hash() err = %v", err)
	}
	if err := h.Compare(hash, []byte("correct horse battery")); err != nil {
		t.Errorf("Compare() with right password err = %v, want nil", err)
	}
	if err := h.Compare(hash, []byte("wrong")); err == nil {
		t.Error("Compare() with wrong password err = nil, want error")
	}
}

func TestNewHasherClampsCost(t *testing.T) {
	if got := NewHasher(0).Cost; got != 10 {
		t.Errorf("NewHasher(0).Cost = %d, want bcrypt default 10", got)
	}
	if got := NewHasher(99).Cost; got != 31 {
		t.Errorf("NewHasher(99).Cost = %d, want 31", got)
	}
	if got := NewHasher(2).Cost; got != 4 {
		t.Errorf("NewHasher(2).Cost = %d, want 4", got)
	}
}
