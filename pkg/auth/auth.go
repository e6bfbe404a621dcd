// Package auth guards the HTTP API with HS256 bearer tokens carrying scopes.
package auth

import (
	"slices"

	"github.com/gofiber/fiber/v2"
)

// Scopes granted to API tokens.
const (
	ScopeAll               = "*"
	ScopeMessagesSend      = "messages:send"
	ScopeTemplatesWrite    = "templates:write"
	ScopeSuppressionsWrite = "suppressions:write"
)

// LocalsKey is the fiber locals key holding the caller's *Context.
const LocalsKey = "auth"

// Context is the authenticated caller of a request.
type Context struct {
	Subject string
	Scopes  []string
}

// HasScope reports whether the caller was granted scope, directly or through ScopeAll.
func (a *Context) HasScope(scope string) bool {
	return slices.Contains(a.Scopes, ScopeAll) || slices.Contains(a.Scopes, scope)
}

// FromCtx returns the caller stored by TokenMiddleware.Authenticate.
func FromCtx(c *fiber.Ctx) (*Context, bool) {
	a, ok := c.Locals(LocalsKey).(*Context)
	return a, ok && a != nil
}
