package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/serviclean/booking-platform/internal/core/domain"
)

// ErrUnauthorized is returned for any 401, from any endpoint. Callers treat
// it as "session no longer valid".
var ErrUnauthorized = errors.New("unauthorized")

// ErrEmailTaken is returned when registration hits an existing email.
var ErrEmailTaken = errors.New("email already registered")

// APIError carries a non-401/409 error response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

const defaultRequestTimeout = 15 * time.Second

// APIClient is a thin HTTP client for the /auth surface.
type APIClient struct {
	baseURL string
	http    *http.Client
}

func NewAPIClient(baseURL string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &APIClient{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// RegisterParams carries the fields for account creation.
type RegisterParams struct {
	Correo     string `json:"correo"`
	Contrasena string `json:"contrasena"`
	Rol        string `json:"rol,omitempty"`
	Nombre     string `json:"nombre,omitempty"`
	Telefono   string `json:"telefono,omitempty"`
}

// Registered is the register response projection: never more than id+email.
type Registered struct {
	ID     string `json:"id"`
	Correo string `json:"correo"`
}

func (c *APIClient) Register(ctx context.Context, params RegisterParams) (*Registered, error) {
	var out Registered
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type loginBody struct {
	Correo     string `json:"correo"`
	Contrasena string `json:"contrasena"`
}

type loginResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (c *APIClient) Login(ctx context.Context, correo, contrasena string) (string, *domain.User, error) {
	var out loginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", loginBody{correo, contrasena}, &out); err != nil {
		return "", nil, err
	}
	return out.Token, out.User, nil
}

type verifyResult struct {
	Valid bool         `json:"valid"`
	User  *domain.User `json:"user"`
}

// Verify re-validates a persisted token. An invalid token surfaces as
// ErrUnauthorized, identical to any other dead session.
func (c *APIClient) Verify(ctx context.Context, token string) (*domain.User, error) {
	var out verifyResult
	if err := c.do(ctx, http.MethodGet, "/auth/verify", token, nil, &out); err != nil {
		return nil, err
	}
	if !out.Valid || out.User == nil {
		return nil, ErrUnauthorized
	}
	return out.User, nil
}

func (c *APIClient) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
}

type changePasswordBody struct {
	Actual string `json:"contrasena_actual"`
	Nueva  string `json:"contrasena_nueva"`
}

func (c *APIClient) ChangePassword(ctx context.Context, token, current, next string) error {
	return c.do(ctx, http.MethodPut, "/auth/change-password", token, changePasswordBody{current, next}, nil)
}

type profileBody struct {
	Nombre   string `json:"nombre,omitempty"`
	Telefono string `json:"telefono,omitempty"`
}

type profileResult struct {
	User *domain.User `json:"user"`
}

func (c *APIClient) UpdateProfile(ctx context.Context, token, nombre, telefono string) (*domain.User, error) {
	var out profileResult
	if err := c.do(ctx, http.MethodPut, "/auth/profile", token, profileBody{nombre, telefono}, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// do performs one JSON request/response round trip. Every 401 maps to
// ErrUnauthorized regardless of endpoint; 409 maps to ErrEmailTaken.
func (c *APIClient) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusConflict:
		return ErrEmailTaken
	case resp.StatusCode >= 400:
		var envelope struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		return &APIError{Status: resp.StatusCode, Message: envelope.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
