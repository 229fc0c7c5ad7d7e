package utils

import (
	"testing"
	"time"
)

func TestGenerateJWTToken_Success(t *testing.T) {
	token, err := GenerateJWTToken("pantry-keeper", 42, time.Hour, "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.SignedString == "" {
		t.Fatal("expected non-empty signed string")
	}
}

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name     string
		issuer   string
		duration time.Duration
		signKey  string
	}{
		{"empty issuer", "", time.Hour, "secret"},
		{"zero duration", "pantry-keeper", 0, "secret"},
		{"empty sign key", "pantry-keeper", time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := GenerateJWTToken(tt.issuer, 1, tt.duration, tt.signKey); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestValidateAndParseJWTToken_RoundTrip(t *testing.T) {
	issued, err := GenerateJWTToken("pantry-keeper", 7, time.Hour, "secret")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parsed, err := ValidateAndParseJWTToken(issued.SignedString, "secret", "pantry-keeper")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if parsed.UserID != 7 {
		t.Errorf("expected UserID=7, got %d", parsed.UserID)
	}
}

func TestValidateAndParseJWTToken_WrongKey(t *testing.T) {
	issued, _ := GenerateJWTToken("pantry-keeper", 7, time.Hour, "secret")

	if _, err := ValidateAndParseJWTToken(issued.SignedString, "other-key", "pantry-keeper"); err == nil {
		t.Fatal("expected signature validation error, got nil")
	}
}

func TestValidateAndParseJWTToken_WrongIssuer(t *testing.T) {
	issued, _ := GenerateJWTToken("someone-else", 7, time.Hour, "secret")

	if _, err := ValidateAndParseJWTToken(issued.SignedString, "secret", "pantry-keeper"); err == nil {
		t.Fatal("expected issuer validation error, got nil")
	}
}

func TestValidateAndParseJWTToken_Expired(t *testing.T) {
	issued, _ := GenerateJWTToken("pantry-keeper", 7, -time.Minute, "secret")

	if _, err := ValidateAndParseJWTToken(issued.SignedString, "secret", "pantry-keeper"); err == nil {
		t.Fatal("expected expiry validation error, got nil")
	}
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"missing token", "Bearer", "", true},
		{"empty header", "", "", true},
		{"empty token part", "Bearer ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBearerToken(tt.header)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
