package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/serviclean/booking-platform/internal/api/middleware"
	"github.com/serviclean/booking-platform/internal/core/domain"
)

// identity is the authenticated caller as established by the Auth middleware.
type identity struct {
	UserID string
	Email  string
	Role   domain.Role
	Token  string
}

// ctxIdentity extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: an empty user id or an
// invalid role means the middleware did not run or the token was defective,
// and the request is rejected rather than passed through.
func ctxIdentity(c echo.Context) (identity, error) {
	userID, _ := c.Get(middleware.CtxUserID).(string)
	role, _ := c.Get(middleware.CtxRole).(domain.Role)
	if userID == "" || !role.Valid() {
		return identity{}, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	email, _ := c.Get(middleware.CtxEmail).(string)
	tok, _ := c.Get(middleware.CtxToken).(string)
	return identity{UserID: userID, Email: email, Role: role, Token: tok}, nil
}
