package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, err := m.GenerateToken(7, "maria", RoleManager)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatal(err)
	}
	actor := claims.Actor()
	if actor.ID != 7 || actor.Username != "maria" || actor.Role != RoleManager {
		t.Fatalf("unexpected actor %+v", actor)
	}
	if !actor.HasRole(RoleAdmin, RoleManager) {
		t.Fatal("manager should match the admin/manager set")
	}
	if actor.HasRole(RoleCashier) {
		t.Fatal("manager must not match cashier")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("one", time.Hour).GenerateToken(1, "a", RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokenManager("two", time.Hour).ValidateToken(token); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)
	issued := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issued }

	token, err := m.GenerateToken(1, "a", RoleCashier)
	if err != nil {
		t.Fatal(err)
	}

	m.now = time.Now
	if _, err := m.ValidateToken(token); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(hash, "s3cret!") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("wrong password accepted")
	}
}
