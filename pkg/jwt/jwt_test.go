package jwt

import (
	"testing"
	"time"
)

func TestIssueAndVerifySessionToken(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour)

	token, err := mgr.IssueSessionToken("session-123")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	sessionID, err := mgr.VerifySessionToken(token)
	if err != nil {
		t.Fatalf("failed to verify token: %v", err)
	}
	if sessionID != "session-123" {
		t.Fatalf("unexpected session id %q", sessionID)
	}
}

func TestVerifySessionToken_WrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour)
	verifier := NewManager("secret-b", time.Hour)

	token, err := issuer.IssueSessionToken("session-123")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	if _, err := verifier.VerifySessionToken(token); err == nil {
		t.Fatalf("expected verification to fail with wrong secret")
	}
}

func TestVerifySessionToken_Expired(t *testing.T) {
	mgr := NewManager("test-secret", -time.Minute)

	token, err := mgr.IssueSessionToken("session-123")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	if _, err := mgr.VerifySessionToken(token); err == nil {
		t.Fatalf("expected verification to fail for expired token")
	}
}

func TestVerifySessionToken_Garbage(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour)

	if _, err := mgr.VerifySessionToken("not-a-token"); err == nil {
		t.Fatalf("expected verification to fail for garbage input")
	}
}
