package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/serviclean/booking-platform/internal/core/domain"
)

// authServer is a minimal fake of the /auth surface. Handlers default to 404;
// tests install only what they exercise.
type authServer struct {
	mux *http.ServeMux
	srv *httptest.Server
}

func newAuthServer(t *testing.T) *authServer {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &authServer{mux: mux, srv: srv}
}

func (s *authServer) client() *APIClient {
	return NewAPIClient(s.srv.URL, s.srv.Client())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func testServerUser() *domain.User {
	return &domain.User{ID: "u1", Email: "a@x.com", Role: domain.RoleCliente, Active: true}
}

func (s *authServer) allowLogin(correo, contrasena, token string) {
	s.mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Correo     string `json:"correo"`
			Contrasena string `json:"contrasena"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Correo != correo || req.Contrasena != contrasena {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Credenciales inválidas"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": testServerUser()})
	})
}

func (s *authServer) allowVerify(token string) {
	s.mux.HandleFunc("GET /auth/verify", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"valid": true, "user": testServerUser()})
	})
}

func TestController_Boot_NoSession(t *testing.T) {
	srv := newAuthServer(t)
	c := NewController(srv.client(), NewMemStore())

	if err := c.Boot(context.Background()); err != nil {
		t.Fatalf("boot: %v", err)
	}

	state := c.State()
	if state.Phase != PhaseUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", state.Phase)
	}
	if state.Loading() {
		t.Fatalf("boot must settle the loading state")
	}
}

func TestController_Boot_ValidPersistedToken(t *testing.T) {
	srv := newAuthServer(t)
	srv.allowVerify("token123")

	store := NewMemStore()
	_ = store.Save("token123", testServerUser())
	c := NewController(srv.client(), store)

	if err := c.Boot(context.Background()); err != nil {
		t.Fatalf("boot: %v", err)
	}

	if !c.IsAuthenticated() {
		t.Fatalf("expected authenticated session")
	}
	if user := c.CurrentUser(); user == nil || user.Email != "a@x.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if !c.HasRole(domain.RoleCliente) || c.IsAdmin() {
		t.Fatalf("role helpers disagree with the verified user")
	}
}

func TestController_Boot_DeadTokenClearsStore(t *testing.T) {
	srv := newAuthServer(t)
	srv.allowVerify("fresh-token")

	store := NewMemStore()
	_ = store.Save("stale-token", testServerUser())
	c := NewController(srv.client(), store)

	// A rejected token is a normal outcome, not an error.
	if err := c.Boot(context.Background()); err != nil {
		t.Fatalf("boot: %v", err)
	}

	if c.IsAuthenticated() {
		t.Fatalf("dead token must not authenticate")
	}
	if token, _, _ := store.Load(); token != "" {
		t.Fatalf("dead token must be purged from the store, got %q", token)
	}
}

func TestController_Boot_Idempotent(t *testing.T) {
	srv := newAuthServer(t)
	c := NewController(srv.client(), NewMemStore())

	if err := c.Boot(context.Background()); err != nil {
		t.Fatalf("first boot: %v", err)
	}
	if err := c.Boot(context.Background()); err != nil {
		t.Fatalf("second boot: %v", err)
	}
	if c.State().Phase != PhaseUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", c.State().Phase)
	}
}

func TestController_Login_Success(t *testing.T) {
	srv := newAuthServer(t)
	srv.allowLogin("a@x.com", "secret1", "token123")

	store := NewMemStore()
	c := NewController(srv.client(), store)
	_ = c.Boot(context.Background())

	if err := c.Login(context.Background(), "a@x.com", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if !c.IsAuthenticated() {
		t.Fatalf("expected authenticated session")
	}
	token, user, _ := store.Load()
	if token != "token123" || user == nil {
		t.Fatalf("session must be persisted, got %q %+v", token, user)
	}
}

func TestController_Login_BadCredentials(t *testing.T) {
	srv := newAuthServer(t)
	srv.allowLogin("a@x.com", "secret1", "token123")

	c := NewController(srv.client(), NewMemStore())
	_ = c.Boot(context.Background())

	err := c.Login(context.Background(), "a@x.com", "wrong")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if c.IsAuthenticated() {
		t.Fatalf("failed login must not authenticate")
	}
	if c.State().Loading() {
		t.Fatalf("failed login must not leave the session loading")
	}
}

func TestController_Register_AutoLogin(t *testing.T) {
	srv := newAuthServer(t)
	srv.allowLogin("new@x.com", "secret1", "token-new")
	srv.mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req RegisterParams
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Correo != "new@x.com" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid input"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": "u9", "correo": req.Correo})
	})

	store := NewMemStore()
	c := NewController(srv.client(), store)
	_ = c.Boot(context.Background())

	err := c.Register(context.Background(), RegisterParams{Correo: "new@x.com", Contrasena: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if !c.IsAuthenticated() {
		t.Fatalf("registration must land in an authenticated session")
	}
	if token, _, _ := store.Load(); token != "token-new" {
		t.Fatalf("expected persisted token, got %q", token)
	}
}

func TestController_Register_EmailTaken(t *testing.T) {
	srv := newAuthServer(t)
	srv.mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "user already exists"})
	})

	c := NewController(srv.client(), NewMemStore())
	_ = c.Boot(context.Background())

	err := c.Register(context.Background(), RegisterParams{Correo: "dup@x.com", Contrasena: "secret1"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if c.IsAuthenticated() {
		t.Fatalf("failed registration must not authenticate")
	}
}

func TestController_Logout(t *testing.T) {
	srv := newAuthServer(t)
	srv.allowLogin("a@x.com", "secret1", "token123")
	srv.mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	store := NewMemStore()
	c := NewController(srv.client(), store)
	_ = c.Boot(context.Background())
	if err := c.Login(context.Background(), "a@x.com", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}

	c.Logout()

	if c.IsAuthenticated() {
		t.Fatalf("expected unauthenticated after logout")
	}
	if token, user, _ := store.Load(); token != "" || user != nil {
		t.Fatalf("logout must clear the store, got %q %+v", token, user)
	}

	// Logging out again is a no-op.
	c.Logout()
	if c.State().Phase != PhaseUnauthenticated {
		t.Fatalf("repeated logout changed state: %v", c.State().Phase)
	}
}

func TestController_UpdateProfile_SelfHealsOn401(t *testing.T) {
	srv := newAuthServer(t)
	srv.allowLogin("a@x.com", "secret1", "token123")
	srv.mux.HandleFunc("PUT /auth/profile", func(w http.ResponseWriter, r *http.Request) {
		// Token revoked server-side between login and this call.
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	})

	store := NewMemStore()
	c := NewController(srv.client(), store)
	_ = c.Boot(context.Background())
	if err := c.Login(context.Background(), "a@x.com", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}

	err := c.UpdateProfile(context.Background(), "Alice", "")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	if c.IsAuthenticated() {
		t.Fatalf("an observed 401 must resolve the session to unauthenticated")
	}
	if token, _, _ := store.Load(); token != "" {
		t.Fatalf("the dead session must be purged, got %q", token)
	}
}

func TestController_UpdateProfile_RefreshesCachedUser(t *testing.T) {
	srv := newAuthServer(t)
	srv.allowLogin("a@x.com", "secret1", "token123")
	srv.mux.HandleFunc("PUT /auth/profile", func(w http.ResponseWriter, r *http.Request) {
		user := testServerUser()
		user.Name = "Alice"
		writeJSON(w, http.StatusOK, map[string]any{"user": user})
	})

	store := NewMemStore()
	c := NewController(srv.client(), store)
	_ = c.Boot(context.Background())
	if err := c.Login(context.Background(), "a@x.com", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := c.UpdateProfile(context.Background(), "Alice", ""); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	if user := c.CurrentUser(); user == nil || user.Name != "Alice" {
		t.Fatalf("cached user not refreshed: %+v", user)
	}
	if _, user, _ := store.Load(); user == nil || user.Name != "Alice" {
		t.Fatalf("persisted user not refreshed: %+v", user)
	}
}

func TestController_ChangePassword_RequiresSession(t *testing.T) {
	srv := newAuthServer(t)
	c := NewController(srv.client(), NewMemStore())
	_ = c.Boot(context.Background())

	err := c.ChangePassword(context.Background(), "old", "new")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized without a session, got %v", err)
	}
}
