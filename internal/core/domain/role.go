package domain

// Role is the closed set of roles known to both the server and the client SDK.
// Adding a role means touching this file: the wire id table and the home-route
// table below are exhaustive over the constants.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCliente Role = "cliente"
	RoleTecnico Role = "tecnico"
	RoleSoporte Role = "soporte"
)

// roleIDs maps each role to its numeric wire identifier (the role_id claim).
var roleIDs = map[Role]int{
	RoleAdmin:   1,
	RoleCliente: 2,
	RoleTecnico: 3,
	RoleSoporte: 4,
}

// roleHomes maps each role to the canonical home area of the SPA.
var roleHomes = map[Role]string{
	RoleAdmin:   "/admin",
	RoleCliente: "/cliente",
	RoleTecnico: "/tecnico",
	RoleSoporte: "/soporte",
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleIDs[r]
	return ok
}

// ID returns the numeric wire identifier for the role, or 0 when unknown.
func (r Role) ID() int {
	return roleIDs[r]
}

// HomePath returns the role's canonical home route. Unknown roles return ""
// so that callers fail closed rather than landing somewhere by accident.
func (r Role) HomePath() string {
	return roleHomes[r]
}

// RoleFromID resolves a numeric wire identifier back to a Role.
func RoleFromID(id int) (Role, bool) {
	for r, rid := range roleIDs {
		if rid == id {
			return r, true
		}
	}
	return "", false
}

// ParseRole resolves a role name to a Role, rejecting anything outside the
// closed set.
func ParseRole(name string) (Role, bool) {
	r := Role(name)
	return r, r.Valid()
}
