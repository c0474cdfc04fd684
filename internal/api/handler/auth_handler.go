package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/serviclean/booking-platform/internal/api/metrics"
	"github.com/serviclean/booking-platform/internal/core/domain"
	"github.com/serviclean/booking-platform/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	audit       ports.AuditRecorder
}

func NewAuthHandler(authService ports.AuthService, audit ports.AuditRecorder) *AuthHandler {
	return &AuthHandler{authService: authService, audit: audit}
}

type registerRequest struct {
	Correo     string `json:"correo"     validate:"required,email"`
	Contrasena string `json:"contrasena" validate:"required,min=6"`
	Rol        string `json:"rol"        validate:"omitempty,oneof=admin cliente tecnico soporte"`
	Nombre     string `json:"nombre"`
	Telefono   string `json:"telefono"`
}

type registerResponse struct {
	ID     string `json:"id"`
	Correo string `json:"correo"`
}

type loginRequest struct {
	Correo     string `json:"correo"     validate:"required"`
	Contrasena string `json:"contrasena" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type verifyResponse struct {
	Valid bool         `json:"valid"`
	User  *domain.User `json:"user,omitempty"`
}

type changePasswordRequest struct {
	Actual string `json:"contrasena_actual" validate:"required"`
	Nueva  string `json:"contrasena_nueva"  validate:"required,min=6"`
}

type profileRequest struct {
	Nombre   string `json:"nombre"`
	Telefono string `json:"telefono"`
}

type profileResponse struct {
	User *domain.User `json:"user"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Correo,
		Password: req.Contrasena,
		Role:     req.Rol,
		Name:     req.Nombre,
		Phone:    req.Telefono,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		} else if errors.Is(err, domain.ErrValidation) {
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	h.record(c, user.Email, domain.ActionRegister, true)

	return c.JSON(http.StatusCreated, registerResponse{ID: user.ID, Correo: user.Email})
}

// Login authenticates a user and returns a signed session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tok, user, err := h.authService.Login(c.Request().Context(), req.Correo, req.Contrasena)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			h.record(c, req.Correo, domain.ActionLogin, false)
		case errors.Is(err, domain.ErrTooManyAttempts):
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.record(c, user.Email, domain.ActionLogin, true)

	return c.JSON(http.StatusOK, loginResponse{Token: tok, User: user})
}

// Verify re-validates the bearer token and returns the current user. The
// user is re-resolved from the store, so role or account-state changes take
// effect without waiting for token expiry.
//
// @Summary      Verify the current session token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  verifyResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/verify [get]
func (h *AuthHandler) Verify(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.VerifyToken(c.Request().Context(), ident.Token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, verifyResponse{Valid: true, User: user})
}

// Logout records a logout event. The token stays valid until its natural
// expiry; discarding it is the client's job.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	h.record(c, ident.Email, domain.ActionLogout, true)
	return c.NoContent(http.StatusNoContent)
}

// ChangePassword replaces the caller's password after re-verifying the
// current one.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/change-password [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), ident.UserID, req.Actual, req.Nueva); err != nil {
		h.record(c, ident.Email, domain.ActionPasswordChange, false)
		return err
	}

	h.record(c, ident.Email, domain.ActionPasswordChange, true)
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// UpdateProfile updates the caller's name and/or phone.
//
// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileRequest  true  "Profile fields"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), ident.UserID, req.Nombre, req.Telefono)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{User: user})
}

// record enqueues an audit event; a nil recorder (tests) is a no-op.
func (h *AuthHandler) record(c echo.Context, email string, action domain.AuthAction, success bool) {
	if h.audit == nil {
		return
	}
	h.audit.Enqueue(domain.AuthEvent{
		Email:     email,
		Action:    action,
		Success:   success,
		RemoteIP:  c.RealIP(),
		Timestamp: time.Now().UTC(),
	})
}
