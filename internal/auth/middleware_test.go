package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httptransport "github.com/spec-kit/sweet-shop-service/internal/api/http"
	"github.com/spec-kit/sweet-shop-service/internal/auth"
	"github.com/spec-kit/sweet-shop-service/internal/domain"
	"github.com/spec-kit/sweet-shop-service/internal/observability"
	"github.com/spec-kit/sweet-shop-service/internal/testutil"
)

const testSecret = "middleware-test-secret"

func buildTestApp(t *testing.T) (*fiber.App, *auth.TokenManager) {
	t.Helper()
	tokens := auth.NewTokenManager(testSecret, 60)
	middleware := auth.NewAuthMiddleware(tokens)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, testutil.NewLogger(), observability.NewMetrics(), 0)

	app.Get("/protected", middleware.Handle, func(c *fiber.Ctx) error {
		principal, ok := auth.PrincipalFromContext(c)
		require.True(t, ok)
		return c.JSON(fiber.Map{"role": principal.Role})
	})
	app.Post("/admin", middleware.Handle, auth.RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusCreated)
	})
	return app, tokens
}

func tokenForRole(t *testing.T, tokens *auth.TokenManager, role domain.Role) string {
	t.Helper()
	token, _, err := tokens.GenerateToken(&domain.User{ID: "u1", Email: "u@x.com", Role: role})
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, method, target, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware_MissingHeaderReturns401(t *testing.T) {
	app, _ := buildTestApp(t)
	resp := doRequest(t, app, http.MethodGet, "/protected", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_MalformedHeaderReturns401(t *testing.T) {
	app, _ := buildTestApp(t)
	for _, header := range []string{"Bearer", "Token abc", "Bearer "} {
		resp := doRequest(t, app, http.MethodGet, "/protected", header)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "header %q", header)
		resp.Body.Close()
	}
}

func TestAuthMiddleware_InvalidTokenReturns403(t *testing.T) {
	app, _ := buildTestApp(t)
	resp := doRequest(t, app, http.MethodGet, "/protected", "Bearer not.a.token")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAuthMiddleware_ForeignSignatureReturns403(t *testing.T) {
	app, _ := buildTestApp(t)
	foreign := auth.NewTokenManager("some-other-secret", 60)
	token := tokenForRole(t, foreign, domain.RoleAdmin)

	resp := doRequest(t, app, http.MethodGet, "/protected", "Bearer "+token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAuthMiddleware_ValidTokenPasses(t *testing.T) {
	app, tokens := buildTestApp(t)
	token := tokenForRole(t, tokens, domain.RoleUser)

	resp := doRequest(t, app, http.MethodGet, "/protected", "Bearer "+token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireAdmin_UserRoleForbidden(t *testing.T) {
	app, tokens := buildTestApp(t)
	token := tokenForRole(t, tokens, domain.RoleUser)

	resp := doRequest(t, app, http.MethodPost, "/admin", "Bearer "+token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireAdmin_AdminRoleAllowed(t *testing.T) {
	app, tokens := buildTestApp(t)
	token := tokenForRole(t, tokens, domain.RoleAdmin)

	resp := doRequest(t, app, http.MethodPost, "/admin", "Bearer "+token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestRequireAdmin_NoTokenReturns401(t *testing.T) {
	app, _ := buildTestApp(t)
	resp := doRequest(t, app, http.MethodPost, "/admin", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
