package security

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateParseRoundTrip(t *testing.T) {
	provider := NewJWTProvider("round-trip-secret")

	token, expiresAt, err := provider.Generate("uid-1", time.Hour)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expiresAt %v is not in the future", expiresAt)
	}

	claims, err := provider.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UID != "uid-1" {
		t.Fatalf("uid = %q, want uid-1", claims.UID)
	}
	if claims.Subject != "uid-1" {
		t.Fatalf("subject = %q, want uid-1", claims.Subject)
	}
}

func TestParseRejectsTamperedToken(t *testing.T) {
	provider := NewJWTProvider("round-trip-secret")
	token, _, err := provider.Generate("uid-1", time.Hour)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d parts", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := provider.Parse(tampered); err == nil {
		t.Fatal("tampered token parsed without error")
	}
}

func TestParseRejectsForeignSecret(t *testing.T) {
	token, _, err := NewJWTProvider("secret-a").Generate("uid-1", time.Hour)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := NewJWTProvider("secret-b").Parse(token); err == nil {
		t.Fatal("token signed under a different secret parsed without error")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	provider := NewJWTProvider("round-trip-secret")
	token, _, err := provider.Generate("uid-1", -time.Minute)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := provider.Parse(token); err == nil {
		t.Fatal("expired token parsed without error")
	}
}
