package msgqueue

import "github.com/Abraxas-365/activemail/pkg/errx"

var queueErrors = errx.NewRegistry("MSGQUEUE")

var (
	ErrInvalidJob     = queueErrors.Register("INVALID_JOB", errx.TypeValidation, 400, "Invalid send job")
	ErrAlreadyRunning = queueErrors.Register("ALREADY_RUNNING", errx.TypeConflict, 409, "Worker is already running")
	ErrNotSent        = queueErrors.Register("NOT_SENT", errx.TypeExternal, 502, "Message was not delivered")
	ErrVetoed         = queueErrors.Register("VETOED", errx.TypeBusiness, 422, "Message was vetoed before delivery")
)
