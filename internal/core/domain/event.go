package domain

import "time"

// AuthAction identifies the kind of authentication activity being audited.
type AuthAction string

const (
	ActionRegister       AuthAction = "register"
	ActionLogin          AuthAction = "login"
	ActionLogout         AuthAction = "logout"
	ActionPasswordChange AuthAction = "password_change"
)

// AuthEvent is a single entry in the authentication audit trail.
type AuthEvent struct {
	Email     string
	Action    AuthAction
	Success   bool
	RemoteIP  string
	Timestamp time.Time
}
