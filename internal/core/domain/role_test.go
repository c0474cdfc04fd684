package domain

import "testing"

func TestRole_ClosedSet(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleCliente, RoleTecnico, RoleSoporte} {
		if !r.Valid() {
			t.Fatalf("expected %s to be valid", r)
		}
		if r.ID() == 0 {
			t.Fatalf("expected %s to have a wire id", r)
		}
		if r.HomePath() == "" {
			t.Fatalf("expected %s to have a home path", r)
		}
	}

	if Role("superuser").Valid() {
		t.Fatalf("unknown role must not be valid")
	}
	if Role("").Valid() {
		t.Fatalf("empty role must not be valid")
	}
}

func TestRole_HomePaths(t *testing.T) {
	cases := map[Role]string{
		RoleAdmin:   "/admin",
		RoleCliente: "/cliente",
		RoleTecnico: "/tecnico",
		RoleSoporte: "/soporte",
	}
	for role, want := range cases {
		if got := role.HomePath(); got != want {
			t.Fatalf("home path for %s: got %s, want %s", role, got, want)
		}
	}
	if got := Role("ghost").HomePath(); got != "" {
		t.Fatalf("unknown role home path must be empty, got %s", got)
	}
}

func TestRoleFromID_RoundTrip(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleCliente, RoleTecnico, RoleSoporte} {
		back, ok := RoleFromID(r.ID())
		if !ok || back != r {
			t.Fatalf("round trip for %s failed: got %s, ok=%v", r, back, ok)
		}
	}
	if _, ok := RoleFromID(99); ok {
		t.Fatalf("unknown id must not resolve")
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole("cliente"); !ok || r != RoleCliente {
		t.Fatalf("expected cliente, got %s ok=%v", r, ok)
	}
	if _, ok := ParseRole("root"); ok {
		t.Fatalf("unknown role name must be rejected")
	}
}
