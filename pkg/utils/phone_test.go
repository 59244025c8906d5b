package utils

import "testing"

func TestValidE164(t *testing.T) {
	ok := []string{"+447911123456", "+15551234567", "+8613800138000"}
	for _, p := range ok {
		if !ValidE164(p) {
			t.Errorf("expected valid: %s", p)
		}
	}
	bad := []string{"", "07911123456", "+0123456", "+44", "447911123456", "+44 7911 123456"}
	for _, p := range bad {
		if ValidE164(p) {
			t.Errorf("expected invalid: %s", p)
		}
	}
}

func TestPasswordRoundtrip(t *testing.T) {
	h := HashPassword("hunter22")
	if h == "" || h == "hunter22" {
		t.Fatal("hash looks wrong")
	}
	if !CheckPassword("hunter22", h) {
		t.Error("correct password rejected")
	}
	if CheckPassword("hunter23", h) {
		t.Error("wrong password accepted")
	}
}
