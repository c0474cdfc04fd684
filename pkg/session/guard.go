package session

import "github.com/serviclean/booking-platform/internal/core/domain"

// LoginPath is the login entry point every unauthenticated redirect targets.
const LoginPath = "/login"

// Policy declares what a protected area requires. An empty AllowedRoles with
// RequireAuth=true gates on authentication only.
type Policy struct {
	RequireAuth  bool
	AllowedRoles []domain.Role
}

// DecisionKind enumerates guard outcomes.
type DecisionKind int

const (
	// DecisionWait means the session is still loading: render a neutral
	// waiting state, make no redirect decision yet.
	DecisionWait DecisionKind = iota
	// DecisionRender means the protected content may be shown.
	DecisionRender
	// DecisionRedirect means navigate to Target instead.
	DecisionRedirect
)

// Decision is the guard's verdict for one navigation.
type Decision struct {
	Kind   DecisionKind
	Target string
	// ReturnTo carries the originally requested location on a redirect to
	// login, so the caller can come back after authenticating.
	ReturnTo string
}

// Evaluate gates a navigation to requested under policy, given the current
// session state.
//
//  1. While the session is loading, wait: deciding now would flash a
//     redirect to login before verification resolves.
//  2. Authentication required but absent: redirect to login, preserving the
//     requested location.
//  3. Role-gated area and the user's role is not allowed: redirect to the
//     user's own home area. An unrecognized role is unauthorized for every
//     gated area and goes back to login (fail closed).
//  4. Otherwise render.
func Evaluate(policy Policy, state State, requested string) Decision {
	if state.Loading() {
		return Decision{Kind: DecisionWait}
	}

	needsAuth := policy.RequireAuth || len(policy.AllowedRoles) > 0
	if needsAuth && !state.Authenticated() {
		return Decision{Kind: DecisionRedirect, Target: LoginPath, ReturnTo: requested}
	}

	if len(policy.AllowedRoles) > 0 {
		role, ok := state.Role()
		if !ok {
			return Decision{Kind: DecisionRedirect, Target: LoginPath, ReturnTo: requested}
		}
		for _, allowed := range policy.AllowedRoles {
			if role == allowed {
				return Decision{Kind: DecisionRender}
			}
		}
		return Decision{Kind: DecisionRedirect, Target: role.HomePath()}
	}

	return Decision{Kind: DecisionRender}
}
