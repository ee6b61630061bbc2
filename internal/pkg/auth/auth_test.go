package auth

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/convocatorias/portal/internal/pkg/apperrors"
)

func init() {
	BcryptCost = bcrypt.MinCost
}

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "test",
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService()

	token, expiresIn, err := svc.GenerateAccessToken(Subject{UserID: "1", Email: "ana@example.com", Role: "Administrador"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if expiresIn != 3600 {
		t.Errorf("expiresIn = %d", expiresIn)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "1" || claims.Role != "Administrador" || claims.Issuer != "test" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestExpiredToken(t *testing.T) {
	svc := newTestService()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := svc.GenerateAccessToken(Subject{UserID: "1"})
	if err != nil {
		t.Fatal(err)
	}

	svc.now = time.Now
	if _, err := svc.ValidateToken(token); !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestTokenSignedWithOtherSecret(t *testing.T) {
	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour})
	token, _, _ := other.GenerateAccessToken(Subject{UserID: "1"})

	if _, err := newTestService().ValidateToken(token); !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer a.b.c", "a.b.c", false},
		{"a.b.c", "a.b.c", false},
		{"", "", true},
		{"Basic xyz", "", true},
	}
	for _, tt := range tests {
		got, err := ExtractBearerToken(tt.header)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ExtractBearerToken(%q) = %q, %v", tt.header, got, err)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3creta")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "s3creta" {
		t.Fatal("password stored in plain text")
	}
	if !CheckPassword(hash, "s3creta") || CheckPassword(hash, "otra") {
		t.Fatal("CheckPassword mismatch")
	}
}

func TestNeedsRehash(t *testing.T) {
	hash, err := HashPassword("s3creta")
	if err != nil {
		t.Fatal(err)
	}
	if NeedsRehash(hash) {
		t.Error("fresh hash reported as outdated")
	}

	old := BcryptCost
	BcryptCost = old + 1
	defer func() { BcryptCost = old }()
	if !NeedsRehash(hash) {
		t.Error("cost change not detected")
	}
	if !NeedsRehash("not-a-hash") {
		t.Error("malformed hash not flagged")
	}
}
