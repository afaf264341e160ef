package authz

import (
	"testing"

	"github.com/boutique-next/internal/constants"
)

func TestNormalizeRole(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"admin", constants.RoleAdmin},
		{"ADMIN", constants.RoleAdmin},
		{"  admin  ", constants.RoleAdmin},
		{"user", constants.RoleUser},
		{"", constants.RoleUser},
		{"superadmin", constants.RoleUser},
		{"root", constants.RoleUser},
	}
	for _, tc := range cases {
		if got := NormalizeRole(tc.in); got != tc.want {
			t.Fatalf("NormalizeRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsAdmin(t *testing.T) {
	cases := []struct {
		role string
		want bool
	}{
		{constants.RoleAdmin, true},
		{"Admin", true},
		{constants.RoleUser, false},
		{"", false},
		{"guest", false},
	}
	for _, tc := range cases {
		if got := IsAdmin(tc.role); got != tc.want {
			t.Fatalf("IsAdmin(%q) = %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestRequireAdmin(t *testing.T) {
	if RequireAdmin(0, constants.RoleAdmin) {
		t.Fatal("unauthenticated admin role must be denied")
	}
	if RequireAdmin(1, constants.RoleUser) {
		t.Fatal("authenticated non-admin must be denied")
	}
	if !RequireAdmin(1, constants.RoleAdmin) {
		t.Fatal("authenticated admin must be allowed")
	}
}

func TestRequireAuthenticated(t *testing.T) {
	if RequireAuthenticated(0) {
		t.Fatal("zero user id must not count as authenticated")
	}
	if !RequireAuthenticated(42) {
		t.Fatal("non-zero user id must count as authenticated")
	}
}
