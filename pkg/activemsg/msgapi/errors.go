package msgapi

import "github.com/Abraxas-365/activemail/pkg/errx"

var apiErrors = errx.NewRegistry("MSGAPI")

var (
	ErrBadRequest       = apiErrors.Register("BAD_REQUEST", errx.TypeValidation, 400, "Malformed request")
	ErrQueueDisabled    = apiErrors.Register("QUEUE_DISABLED", errx.TypeUnavailable, 503, "Deferred sending is not configured")
	ErrTemplatesMissing = apiErrors.Register("TEMPLATES_DISABLED", errx.TypeUnavailable, 503, "No template store is configured")
	ErrTemplateNotFound = apiErrors.Register("TEMPLATE_NOT_FOUND", errx.TypeNotFound, 404, "Template not found")
	ErrSuppressionOff   = apiErrors.Register("SUPPRESSION_DISABLED", errx.TypeUnavailable, 503, "Suppression list is not configured")
)
