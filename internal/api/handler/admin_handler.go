package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/serviclean/booking-platform/internal/core/domain"
	"github.com/serviclean/booking-platform/internal/core/ports"
)

// AdminHandler serves the admin-only user management surface. Routes using it
// sit behind Auth + RBAC(admin).
type AdminHandler struct {
	authService ports.AuthService
}

func NewAdminHandler(authService ports.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

type listUsersResponse struct {
	Users []*domain.User `json:"users"`
}

// ListUsers returns every user record. Password hashes never serialize: the
// domain type tags the field `json:"-"`.
//
// @Summary      List all users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listUsersResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.authService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, listUsersResponse{Users: users})
}
