package notifx

import "github.com/Abraxas-365/activemail/pkg/errx"

var notifxErrors = errx.NewRegistry("NOTIFX")

var (
	ErrSendFailed     = notifxErrors.Register("SEND_FAILED", errx.TypeExternal, 500, "Failed to send email")
	ErrInvalidMessage = notifxErrors.Register("INVALID_MESSAGE", errx.TypeValidation, 400, "Invalid email message")
	ErrViewNotFound   = notifxErrors.Register("VIEW_NOT_FOUND", errx.TypeNotFound, 404, "Email view not found")
	ErrViewParse      = notifxErrors.Register("VIEW_PARSE", errx.TypeValidation, 400, "Failed to parse email view")
	ErrViewRender     = notifxErrors.Register("VIEW_RENDER", errx.TypeInternal, 500, "Failed to render email view")
	ErrNoProvider     = notifxErrors.Register("NO_PROVIDER", errx.TypeInternal, 500, "No email provider configured")
)
