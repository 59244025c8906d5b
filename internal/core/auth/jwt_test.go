package auth

import (
	"testing"
	"time"
)

func TestIssueParseRoundtrip(t *testing.T) {
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "ridelink", TTL: time.Hour}

	tok, err := j.Issue("u1", "admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := j.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UID != "u1" || claims.Role != "admin" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseRejectsWrongSecretAndIssuer(t *testing.T) {
	j := &JWTer{Secret: []byte("s1"), Issuer: "ridelink", TTL: time.Hour}
	tok, _ := j.Issue("u1", "user")

	other := &JWTer{Secret: []byte("s2"), Issuer: "ridelink", TTL: time.Hour}
	if _, err := other.Parse(tok); err == nil {
		t.Error("expected error for wrong secret")
	}

	wrongIss := &JWTer{Secret: []byte("s1"), Issuer: "someone-else", TTL: time.Hour}
	if _, err := wrongIss.Parse(tok); err == nil {
		t.Error("expected error for wrong issuer")
	}
}
