package auth

import "github.com/Abraxas-365/activemail/pkg/errx"

var authErrors = errx.NewRegistry("AUTH")

var (
	ErrUnauthorized    = authErrors.Register("UNAUTHORIZED", errx.TypeAuthorization, 401, "Authentication required")
	ErrInvalidToken    = authErrors.Register("INVALID_TOKEN", errx.TypeAuthorization, 401, "Invalid or expired token")
	ErrForbidden       = authErrors.Register("FORBIDDEN", errx.TypeAuthorization, 403, "Token is missing a required scope")
	ErrTokenGeneration = authErrors.Register("TOKEN_GENERATION", errx.TypeInternal, 500, "Failed to sign token")
)
