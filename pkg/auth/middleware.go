package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AccessTokenCookie is read when the request has no Authorization header.
const AccessTokenCookie = "access_token"

// TokenMiddleware authenticates API requests with bearer tokens.
type TokenMiddleware struct {
	tokens TokenService
}

// NewAuthMiddleware creates the middleware.
func NewAuthMiddleware(tokens TokenService) *TokenMiddleware {
	return &TokenMiddleware{tokens: tokens}
}

// Authenticate rejects requests without a valid token and stores the caller
// under LocalsKey.
func (am *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			token = c.Cookies(AccessTokenCookie)
		}
		if token == "" {
			return authErrors.New(ErrUnauthorized)
		}

		claims, err := am.tokens.ValidateAccessToken(token)
		if err != nil {
			return err
		}

		c.Locals(LocalsKey, &Context{Subject: claims.Subject, Scopes: claims.Scopes})
		return c.Next()
	}
}

// RequireScope lets the request through only when the caller holds scope.
func (am *TokenMiddleware) RequireScope(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := FromCtx(c)
		if !ok {
			return authErrors.New(ErrUnauthorized)
		}
		if !caller.HasScope(scope) {
			return authErrors.New(ErrForbidden).WithDetail("scope", scope)
		}
		return c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
