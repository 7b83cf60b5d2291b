package auth

import (
	"errors"
	"testing"

	"CurrentFM/model"
)

func testUser() *model.User {
	return &model.User{ID: 42, Username: "ada", Role: model.RoleArtist}
}

func TestGenerateAndParseToken(t *testing.T) {
	provider := StaticSecret("test-secret")

	signed, err := GenerateToken(provider, testUser())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken(provider, signed)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("uid = %d, want 42", claims.UserID)
	}
	if claims.Username != "ada" {
		t.Errorf("username = %q", claims.Username)
	}
	if claims.Role != model.RoleArtist {
		t.Errorf("role = %q", claims.Role)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	signed, err := GenerateToken(StaticSecret("secret-a"), testUser())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseToken(StaticSecret("secret-b"), signed); err == nil {
		t.Error("expected verification failure with a different secret")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	if _, err := ParseToken(StaticSecret("test-secret"), "not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestStaticSecretEmpty(t *testing.T) {
	if _, err := GenerateToken(StaticSecret(""), testUser()); !errors.Is(err, ErrNoSecret) {
		t.Errorf("err = %v, want ErrNoSecret", err)
	}
}

func TestSecretProviderCachesAndInvalidates(t *testing.T) {
	loads := 0
	provider := NewSecretProvider(func() ([]byte, error) {
		loads++
		return []byte("rotating"), nil
	})

	for i := 0; i < 3; i++ {
		if _, err := provider.Secret(); err != nil {
			t.Fatalf("Secret: %v", err)
		}
	}
	if loads != 1 {
		t.Errorf("loads = %d, want 1 while cached", loads)
	}

	provider.Invalidate()
	if _, err := provider.Secret(); err != nil {
		t.Fatalf("Secret after Invalidate: %v", err)
	}
	if loads != 2 {
		t.Errorf("loads = %d, want 2 after invalidation", loads)
	}
}
