package activemsg

import "github.com/Abraxas-365/activemail/pkg/errx"

var activemsgErrors = errx.NewRegistry("ACTIVEMSG")

var (
	ErrConfiguration   = activemsgErrors.Register("CONFIGURATION", errx.TypeValidation, 400, "Active message is not valid")
	ErrNoMailer        = activemsgErrors.Register("NO_MAILER", errx.TypeInternal, 500, "No mailer configured")
	ErrTemplateLookup  = activemsgErrors.Register("TEMPLATE_LOOKUP", errx.TypeExternal, 502, "Template store lookup failed")
	ErrInvalidOverride = activemsgErrors.Register("INVALID_OVERRIDE", errx.TypeValidation, 400, "Template override has an invalid value")
	ErrCompose         = activemsgErrors.Register("COMPOSE", errx.TypeInternal, 500, "Mailer failed to compose message")
	ErrUnknownMessage  = activemsgErrors.Register("UNKNOWN_MESSAGE", errx.TypeNotFound, 404, "Unknown active message")
	ErrInvalidParams   = activemsgErrors.Register("INVALID_PARAMS", errx.TypeValidation, 400, "Invalid active message parameters")
)
