package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/serviclean/booking-platform/internal/core/domain"
)

// Controller owns the client session lifecycle. It is the single source of
// truth for "am I logged in": UI code reads State() and calls the operations
// below; it never touches the store or the API client directly.
//
// Stale responses are handled by generation counting, not cancellation: every
// local reset (logout, observed 401) bumps the generation, and any network
// response carrying an older generation is discarded on arrival.
type Controller struct {
	mu    sync.Mutex
	api   *APIClient
	store Store

	phase Phase
	user  *domain.User
	token string
	busy  int
	gen   uint64

	// bootDone is non-nil while the boot verification is in flight so that
	// concurrent Boot calls coalesce into the single request.
	bootDone chan struct{}
}

func NewController(api *APIClient, store Store) *Controller {
	return &Controller{api: api, store: store, phase: PhaseBooting}
}

// State returns a snapshot of the current session.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Phase: c.phase, User: c.user, busy: c.busy > 0}
}

func (c *Controller) IsAuthenticated() bool {
	return c.State().Authenticated()
}

func (c *Controller) HasRole(role domain.Role) bool {
	r, ok := c.State().Role()
	return ok && r == role
}

func (c *Controller) IsAdmin() bool {
	return c.HasRole(domain.RoleAdmin)
}

func (c *Controller) CurrentUser() *domain.User {
	return c.State().User
}

// Boot resolves the persisted session, if any. The first caller performs the
// verification round trip; concurrent callers block until it resolves. After
// Boot returns, State().Loading() is false (absent in-flight operations).
func (c *Controller) Boot(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != PhaseBooting {
		done := c.bootDone
		c.mu.Unlock()
		if done != nil {
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}

	token, cached, err := c.store.Load()
	if err != nil {
		c.phase = PhaseUnauthenticated
		c.mu.Unlock()
		return err
	}
	if token == "" {
		c.phase = PhaseUnauthenticated
		c.mu.Unlock()
		return nil
	}

	// Show the cached user while verifying so the UI can render something,
	// but stay in Verifying: no authorization decision is made from cache.
	c.phase = PhaseVerifying
	c.user = cached
	c.token = token
	gen := c.gen
	done := make(chan struct{})
	c.bootDone = done
	c.mu.Unlock()

	user, verifyErr := c.api.Verify(ctx, token)

	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() {
		c.bootDone = nil
		close(done)
	}()

	if c.gen != gen {
		// A logout won the race; this response is stale.
		return nil
	}

	if verifyErr != nil {
		c.resetLocked()
		if errors.Is(verifyErr, ErrUnauthorized) {
			return nil
		}
		return verifyErr
	}

	c.phase = PhaseAuthenticated
	c.user = user
	_ = c.store.SaveUser(user)
	return nil
}

// Login authenticates and persists the session. A 401 means bad credentials;
// the session state is left as it was.
func (c *Controller) Login(ctx context.Context, correo, contrasena string) error {
	gen := c.beginCall()
	token, user, err := c.api.Login(ctx, correo, contrasena)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy--

	if c.gen != gen {
		return nil
	}
	if err != nil {
		return err
	}

	if saveErr := c.store.Save(token, user); saveErr != nil {
		return saveErr
	}
	c.phase = PhaseAuthenticated
	c.user = user
	c.token = token
	return nil
}

// Register creates the account and then logs in with the same credentials,
// so a successful registration lands in Authenticated.
func (c *Controller) Register(ctx context.Context, params RegisterParams) error {
	gen := c.beginCall()
	_, err := c.api.Register(ctx, params)

	c.mu.Lock()
	c.busy--
	stale := c.gen != gen
	c.mu.Unlock()

	if stale {
		return nil
	}
	if err != nil {
		return err
	}
	return c.Login(ctx, params.Correo, params.Contrasena)
}

// Logout clears the local session immediately and notifies the server in the
// background; a notification failure never blocks or un-does the logout.
// Calling Logout on an already-unauthenticated session is a no-op.
func (c *Controller) Logout() {
	c.mu.Lock()
	token := c.token
	c.resetLocked()
	c.mu.Unlock()

	if token == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = c.api.Logout(ctx, token)
	}()
}

// ChangePassword re-proves the current password server-side. An observed 401
// resolves the whole session to Unauthenticated.
func (c *Controller) ChangePassword(ctx context.Context, current, next string) error {
	token, gen, ok := c.beginAuthedCall()
	if !ok {
		return ErrUnauthorized
	}

	err := c.api.ChangePassword(ctx, token, current, next)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy--

	if c.gen != gen {
		return nil
	}
	if errors.Is(err, ErrUnauthorized) {
		c.resetLocked()
	}
	return err
}

// UpdateProfile pushes name/phone changes and refreshes the cached user.
func (c *Controller) UpdateProfile(ctx context.Context, nombre, telefono string) error {
	token, gen, ok := c.beginAuthedCall()
	if !ok {
		return ErrUnauthorized
	}

	user, err := c.api.UpdateProfile(ctx, token, nombre, telefono)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy--

	if c.gen != gen {
		return nil
	}
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			c.resetLocked()
		}
		return err
	}

	c.user = user
	_ = c.store.SaveUser(user)
	return nil
}

// beginCall marks an in-flight operation and returns the generation the
// response must match to be applied.
func (c *Controller) beginCall() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy++
	return c.gen
}

func (c *Controller) beginAuthedCall() (token string, gen uint64, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseAuthenticated || c.token == "" {
		return "", 0, false
	}
	c.busy++
	return c.token, c.gen, true
}

// resetLocked moves the session to Unauthenticated, bumps the generation so
// in-flight responses get discarded, and clears both persisted keys.
// Callers must hold c.mu.
func (c *Controller) resetLocked() {
	c.gen++
	c.phase = PhaseUnauthenticated
	c.user = nil
	c.token = ""
	_ = c.store.Clear()
}
