package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abraxas-365/activemail/pkg/auth"
	"github.com/Abraxas-365/activemail/pkg/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestJWTService_RoundTrip(t *testing.T) {
	svc := auth.NewJWTService(secret, time.Minute, "")

	token, err := svc.GenerateAccessToken("billing", []string{auth.ScopeMessagesSend})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "billing", claims.Subject)
	assert.Equal(t, auth.DefaultIssuer, claims.Issuer)
	assert.Equal(t, []string{auth.ScopeMessagesSend}, claims.Scopes)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := auth.NewJWTService(secret, time.Minute, "")

	expired, err := auth.NewJWTService(secret, -time.Minute, "").GenerateAccessToken("ops", nil)
	require.NoError(t, err)

	otherKey, err := auth.NewJWTService("ffffffffffffffffffffffffffffffff", time.Minute, "").GenerateAccessToken("ops", nil)
	require.NoError(t, err)

	otherIssuer, err := auth.NewJWTService(secret, time.Minute, "someone-else").GenerateAccessToken("ops", nil)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    auth.DefaultIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":      expired,
		"other key":    otherKey,
		"other issuer": otherIssuer,
		"alg none":     unsigned,
		"garbage":      "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(token)
			assert.True(t, errx.HasCode(err, auth.ErrInvalidToken))
		})
	}
}

func TestContext_HasScope(t *testing.T) {
	sender := &auth.Context{Scopes: []string{auth.ScopeMessagesSend}}
	assert.True(t, sender.HasScope(auth.ScopeMessagesSend))
	assert.False(t, sender.HasScope(auth.ScopeTemplatesWrite))

	admin := &auth.Context{Scopes: []string{auth.ScopeAll}}
	assert.True(t, admin.HasScope(auth.ScopeSuppressionsWrite))
}

func newApp(svc auth.TokenService) *fiber.App {
	mw := auth.NewAuthMiddleware(svc)
	app := fiber.New(fiber.Config{ErrorHandler: errx.FiberErrorHandler})
	app.Use(mw.Authenticate())
	app.Get("/whoami", func(c *fiber.Ctx) error {
		caller, _ := auth.FromCtx(c)
		return c.SendString(caller.Subject)
	})
	app.Post("/send", mw.RequireScope(auth.ScopeMessagesSend), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return app
}

func request(t *testing.T, app *fiber.App, method, path string, setup func(*http.Request)) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if setup != nil {
		setup(req)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func bearer(token string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func TestAuthenticate(t *testing.T) {
	svc := auth.NewJWTService(secret, time.Minute, "")
	app := newApp(svc)

	token, err := svc.GenerateAccessToken("billing", []string{auth.ScopeMessagesSend})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, request(t, app, http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, request(t, app, http.MethodGet, "/whoami", bearer("not-a-token")))
	assert.Equal(t, http.StatusUnauthorized, request(t, app, http.MethodGet, "/whoami", func(r *http.Request) {
		r.Header.Set("Authorization", "Basic "+token)
	}))

	assert.Equal(t, http.StatusOK, request(t, app, http.MethodGet, "/whoami", bearer(token)))
	assert.Equal(t, http.StatusOK, request(t, app, http.MethodGet, "/whoami", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: token})
	}))
}

func TestRequireScope(t *testing.T) {
	svc := auth.NewJWTService(secret, time.Minute, "")
	app := newApp(svc)

	sender, err := svc.GenerateAccessToken("billing", []string{auth.ScopeMessagesSend})
	require.NoError(t, err)
	reader, err := svc.GenerateAccessToken("dashboard", nil)
	require.NoError(t, err)
	admin, err := svc.GenerateAccessToken("ops", []string{auth.ScopeAll})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, request(t, app, http.MethodPost, "/send", bearer(sender)))
	assert.Equal(t, http.StatusNoContent, request(t, app, http.MethodPost, "/send", bearer(admin)))
	assert.Equal(t, http.StatusForbidden, request(t, app, http.MethodPost, "/send", bearer(reader)))
}
