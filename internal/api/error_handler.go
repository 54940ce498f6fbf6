package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userhub/account-service/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain errors
// to status codes and caller-facing messages. Unexpected errors are logged and
// replaced by a generic message so no internal detail reaches the client.
//
// When concealAccounts is set, unknown email and wrong password both render
// as "Invalid credentials".
func NewHTTPErrorHandler(log zerolog.Logger, concealAccounts bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, concealAccounts, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, concealAccounts bool, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrMissingFields):
		return http.StatusBadRequest, "All fields required"
	case errors.Is(err, domain.ErrPasswordTooLong):
		return http.StatusBadRequest, "Password must not exceed 72 bytes"
	case errors.Is(err, domain.ErrEmailExists):
		return http.StatusConflict, "Email already exists"
	case errors.Is(err, domain.ErrAccountNotFound):
		if concealAccounts {
			return http.StatusUnauthorized, "Invalid credentials"
		}
		return http.StatusNotFound, "User not found"
	case errors.Is(err, domain.ErrInvalidPassword):
		if concealAccounts {
			return http.StatusUnauthorized, "Invalid credentials"
		}
		return http.StatusUnauthorized, "Invalid password"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	}

	event := log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path())

	if errors.Is(err, domain.ErrStoreUnavailable) {
		event.Msg("credential store failure")
		return http.StatusServiceUnavailable, "DB error"
	}

	event.Msg("unhandled error")
	return http.StatusInternalServerError, "Internal server error"
}
