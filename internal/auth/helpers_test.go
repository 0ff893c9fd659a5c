package auth

import (
	"testing"
	"time"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	token, err := GenerateJWT("507f1f77bcf86cd799439011", "Ada Lovelace", "ada@uni.edu", RoleStudent, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != "507f1f77bcf86cd799439011" {
		t.Errorf("UserID = %q", claims.UserID)
	}
	if claims.Email != "ada@uni.edu" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.Role != RoleStudent {
		t.Errorf("Role = %q", claims.Role)
	}
}

func TestValidateJWTExpired(t *testing.T) {
	token, err := GenerateJWT("u1", "n", "e@uni.edu", RoleAdmin, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ValidateJWT(token); err == nil {
		t.Error("expected an error for an expired token")
	}
}

func TestValidateJWTGarbage(t *testing.T) {
	if _, err := ValidateJWT("not.a.token"); err == nil {
		t.Error("expected an error for a malformed token")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plain password")
	}
	if !CheckPasswordHash("s3cret-pass", hash) {
		t.Error("correct password should verify")
	}
	if CheckPasswordHash("wrong-pass", hash) {
		t.Error("wrong password should not verify")
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleStudent, RoleSupervisor, RoleAdmin} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false", role)
		}
	}
	for _, role := range []string{"", "root", "Student"} {
		if ValidRole(role) {
			t.Errorf("ValidRole(%q) = true", role)
		}
	}
}
