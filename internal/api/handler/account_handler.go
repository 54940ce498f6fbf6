package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/account-service/internal/api/metrics"
	"github.com/userhub/account-service/internal/core/domain"
	"github.com/userhub/account-service/internal/core/ports"
)

const (
	msgRegistered = "User registered successfully"
	msgLoggedIn   = "Login successful"
)

type AccountHandler struct {
	service ports.AccountService
	metrics *metrics.Metrics
}

func NewAccountHandler(service ports.AccountService, m *metrics.Metrics) *AccountHandler {
	return &AccountHandler{service: service, metrics: m}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Success string `json:"success"`
}

type loginResponse struct {
	Success string          `json:"success"`
	User    *domain.Profile `json:"user"`
}

// Register creates a new account.
//
// @Summary      Register a new account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest   true  "Account details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		h.metrics.Registrations.WithLabelValues(metrics.ResultInvalidInput).Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		h.metrics.Registrations.WithLabelValues(metrics.ResultInvalidInput).Inc()
		return err
	}

	if err := h.service.Register(c.Request().Context(), req.Name, req.Email, req.Password); err != nil {
		h.metrics.Registrations.WithLabelValues(result(err)).Inc()
		return err
	}

	h.metrics.Registrations.WithLabelValues(metrics.ResultSuccess).Inc()
	return c.JSON(http.StatusCreated, registerResponse{Success: msgRegistered})
}

// Login verifies credentials and returns the account profile.
//
// @Summary      Log in
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		h.metrics.Logins.WithLabelValues(metrics.ResultInvalidInput).Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	profile, err := h.service.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.Logins.WithLabelValues(result(err)).Inc()
		return err
	}

	h.metrics.Logins.WithLabelValues(metrics.ResultSuccess).Inc()
	return c.JSON(http.StatusOK, loginResponse{Success: msgLoggedIn, User: profile})
}

func result(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingFields), errors.Is(err, domain.ErrPasswordTooLong):
		return metrics.ResultInvalidInput
	case errors.Is(err, domain.ErrEmailExists):
		return metrics.ResultDuplicate
	case errors.Is(err, domain.ErrAccountNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, domain.ErrInvalidPassword), errors.Is(err, domain.ErrInvalidCredentials):
		return metrics.ResultInvalidPassword
	default:
		return metrics.ResultError
	}
}
