package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lfcamara/user-auth-service/internal/utils"
)

const testSecret = "test-secret"

func doRequest(t *testing.T, mw echo.MiddlewareFunc, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	access, err := utils.NewAccessToken(testSecret, 7, "a@x.com", "admin", time.Now(), time.Minute)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+access.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		called = true
		if c.Get("email") != "a@x.com" || c.Get("role") != "admin" {
			t.Fatalf("claims not injected: email=%v role=%v", c.Get("email"), c.Get("role"))
		}
		if uid, ok := UserIDFromContext(c); !ok || uid != 7 {
			t.Fatalf("UserIDFromContext = %d, %v", uid, ok)
		}
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("next handler was not called")
	}
}

func TestJWTAuthRejectsMissingAndInvalid(t *testing.T) {
	if rec := doRequest(t, JWTAuth(testSecret), ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: status = %d", rec.Code)
	}
	if rec := doRequest(t, JWTAuth(testSecret), "Bearer not-a-jwt"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status = %d", rec.Code)
	}

	// Token signed with a different secret.
	access, err := utils.NewAccessToken("other-secret", 7, "a@x.com", "admin", time.Now(), time.Minute)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if rec := doRequest(t, JWTAuth(testSecret), "Bearer "+access.Token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret: status = %d", rec.Code)
	}

	// Expired token.
	access, err = utils.NewAccessToken(testSecret, 7, "a@x.com", "admin", time.Now().Add(-time.Hour), time.Minute)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if rec := doRequest(t, JWTAuth(testSecret), "Bearer "+access.Token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expired token: status = %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	run := func(role any, mw echo.MiddlewareFunc) int {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
		if err := h(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		return rec.Code
	}

	if code := run("admin", RequireRole("admin")); code != http.StatusOK {
		t.Fatalf("allowed role rejected: %d", code)
	}
	if code := run("user", RequireRole("admin", "moderator")); code != http.StatusForbidden {
		t.Fatalf("unlisted role admitted: %d", code)
	}
	if code := run(nil, RequireRole("admin")); code != http.StatusForbidden {
		t.Fatalf("missing role admitted: %d", code)
	}
	// Empty set means authenticated-only: any role (or none stored)
	// passes through.
	if code := run(nil, RequireRole()); code != http.StatusOK {
		t.Fatalf("empty role set must not filter: %d", code)
	}
	if code := run("user", RequireRole()); code != http.StatusOK {
		t.Fatalf("empty role set must not filter: %d", code)
	}
}
