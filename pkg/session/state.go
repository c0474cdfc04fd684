// Package session is the client SDK for the booking-platform auth service:
// an HTTP client for the /auth surface, a persistent session store, a session
// lifecycle controller and a declarative access guard. UI layers consume the
// controller's state and the guard's decisions; nothing here touches globals.
package session

import "github.com/serviclean/booking-platform/internal/core/domain"

// Phase is the lifecycle phase of the client session. Every consumer must
// handle all phases explicitly; there is no implicit "probably logged in".
type Phase int

const (
	// PhaseBooting is the initial state before Boot has inspected the store.
	PhaseBooting Phase = iota
	// PhaseVerifying means a persisted token is being re-validated.
	PhaseVerifying
	// PhaseUnauthenticated means there is no usable session.
	PhaseUnauthenticated
	// PhaseAuthenticated means a verified user session is active.
	PhaseAuthenticated
)

// State is the UI-visible session snapshot. User is non-nil exactly when
// Phase is PhaseAuthenticated.
type State struct {
	Phase Phase
	User  *domain.User
	// busy is true while a login/register/update call is in flight.
	busy bool
}

// Loading reports whether a session decision is still pending. UI must treat
// true as "decision pending", never as "unauthenticated".
func (s State) Loading() bool {
	return s.Phase == PhaseBooting || s.Phase == PhaseVerifying || s.busy
}

// Authenticated reports whether a verified user session is active.
func (s State) Authenticated() bool {
	return s.Phase == PhaseAuthenticated && s.User != nil
}

// Role returns the current user's role and whether it is one of the known
// roles. Unauthenticated sessions and unknown roles both return ok=false.
func (s State) Role() (domain.Role, bool) {
	if !s.Authenticated() {
		return "", false
	}
	return s.User.Role, s.User.Role.Valid()
}
