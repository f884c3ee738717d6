package util

import (
	"testing"
	"time"

	"ativflow_backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret string, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func TestParseJWT(t *testing.T) {
	secret := "test-secret"
	in := &Claims{
		UserID: 42,
		Role:   model.Teacher,
		Email:  "t@test.local",
		Class:  "3A",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	out, err := ParseJWT(signToken(t, secret, in), secret)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if out.UserID != 42 || out.Role != model.Teacher || out.Class != "3A" {
		t.Fatalf("claims = %+v", out)
	}
}

func TestParseJWTRejectsBadSecret(t *testing.T) {
	in := &Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	if _, err := ParseJWT(signToken(t, "right", in), "wrong"); err == nil {
		t.Fatal("token signed with another secret must fail")
	}
}

func TestParseJWTRejectsExpired(t *testing.T) {
	secret := "test-secret"
	in := &Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}}
	if _, err := ParseJWT(signToken(t, secret, in), secret); err == nil {
		t.Fatal("expired token must fail")
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 66.666666, want: 66.67},
		{in: 50, want: 50},
		{in: 0.005, want: 0.01},
		{in: 0, want: 0},
	}
	for _, tc := range tests {
		if got := Round2(tc.in); got != tc.want {
			t.Errorf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestMustParseUint(t *testing.T) {
	if got := MustParseUint("17"); got != 17 {
		t.Fatalf("got %d", got)
	}
	if got := MustParseUint("not a number"); got != 0 {
		t.Fatalf("bad input should parse to 0, got %d", got)
	}
}
