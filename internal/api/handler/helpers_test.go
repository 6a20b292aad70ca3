package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/paygate/approval-service/internal/api/middleware"
	"github.com/paygate/approval-service/internal/core/domain"
)

// newTestContext builds an echo context with the validator wired in. When
// identity is non-nil it is injected the way the Auth middleware does it.
func newTestContext(method, target, body string, identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if identity != nil {
		verifier := staticVerifier{identity: *identity}
		_ = middleware.Auth(verifier)(func(echo.Context) error { return nil })(withBearer(c))
	}
	return c, rec
}

type staticVerifier struct {
	identity domain.Identity
}

func (v staticVerifier) Verify(string) (domain.Identity, error) { return v.identity, nil }

func withBearer(c echo.Context) echo.Context {
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer test")
	return c
}

func httpStatus(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return 0
}
