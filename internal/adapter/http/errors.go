package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"campus-lending/internal/adapter/middleware"
	"campus-lending/internal/domain/contract"
	"campus-lending/internal/domain/department"
	"campus-lending/internal/domain/loan"
	"campus-lending/internal/domain/loanrequest"
	"campus-lending/internal/domain/notification"
	"campus-lending/internal/domain/resource"
	"campus-lending/internal/domain/user"
	"campus-lending/internal/infrastructure/auth"
)

// statusOf maps domain errors to HTTP statuses. The first match wins.
var statusOf = []struct {
	err  error
	code int
}{
	{user.ErrForbidden, http.StatusForbidden},

	{user.ErrNotFound, http.StatusNotFound},
	{department.ErrNotFound, http.StatusNotFound},
	{resource.ErrNotFound, http.StatusNotFound},
	{loanrequest.ErrNotFound, http.StatusNotFound},
	{loan.ErrNotFound, http.StatusNotFound},
	{notification.ErrNotFound, http.StatusNotFound},
	{contract.ErrNotFound, http.StatusNotFound},

	{resource.ErrUnavailable, http.StatusConflict},
	{resource.ErrOnLoan, http.StatusConflict},
	{resource.ErrDuplicateCode, http.StatusConflict},
	{loanrequest.ErrNotPending, http.StatusConflict},
	{loan.ErrAlreadyReturned, http.StatusConflict},
	{user.ErrDuplicateCode, http.StatusConflict},
	{user.ErrDuplicateEmail, http.StatusConflict},

	{loan.ErrDueDateTooSoon, http.StatusUnprocessableEntity},
	{loan.ErrInvalidDueDate, http.StatusUnprocessableEntity},
	{resource.ErrInvalid, http.StatusUnprocessableEntity},
	{user.ErrInvalidRole, http.StatusUnprocessableEntity},
	{user.ErrPasswordMismatch, http.StatusUnprocessableEntity},

	{loanrequest.ErrInvalidStatus, http.StatusBadRequest},

	{user.ErrInvalidCredentials, http.StatusUnauthorized},
	{auth.ErrInvalidToken, http.StatusUnauthorized},
	{auth.ErrExpiredToken, http.StatusUnauthorized},
}

func statusFor(err error) int {
	for _, s := range statusOf {
		if errors.Is(err, s.err) {
			return s.code
		}
	}
	return http.StatusInternalServerError
}

// fail writes err as an ErrorResponse. Unknown errors are logged and hidden.
func fail(c echo.Context, log *zap.Logger, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("route", c.Path()),
			zap.Error(err))
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}

// decode binds and validates req. When it returns false the 400/422
// response has been written and err is what the handler should return.
func decode(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	return true, nil
}

// authedFunc is a handler for routes behind Auth.
type authedFunc func(c echo.Context, p user.Principal) error

func withPrincipal(fn authedFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		}
		return fn(c, p)
	}
}

// parseDate reads a validated YYYY-MM-DD value as UTC midnight.
func parseDate(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return t
}
