package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/paygate/approval-service/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"validation", &domain.ValidationError{Fields: []domain.FieldError{{Field: "email", Message: "email is required"}}},
			http.StatusBadRequest, `{"error":"email is required","fields":[{"field":"email","message":"email is required"}]}`},
		{"echo error", echo.NewHTTPError(http.StatusTooManyRequests, "too many requests"),
			http.StatusTooManyRequests, `{"error":"too many requests"}`},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, `{"error":"invalid credentials"}`},
		{"duplicate email", domain.ErrUserExists, http.StatusUnauthorized, `{"error":"email already registered"}`},
		{"wrong role", domain.ErrRoleNotPermitted, http.StatusUnauthorized, `{"error":"operation not permitted for this role"}`},
		{"wrapped not found", fmt.Errorf("resolve transaction 4: %w", domain.ErrTransactionNotFound),
			http.StatusNotFound, `{"error":"transaction not found"}`},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, `{"error":"user not found"}`},
		{"internal", errors.New("connection reset by peer"), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			assert.Equal(t, tc.code, rec.Code)
			assert.JSONEq(t, tc.body, rec.Body.String())
		})
	}
}

func TestHTTPErrorHandler_InvalidTransitionIsConflict(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	err := fmt.Errorf("resolve transaction 4: %w (from DONE to REJECTED)", domain.ErrInvalidTransition)
	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid status transition")
}
