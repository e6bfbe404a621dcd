package notifxses

import "github.com/Abraxas-365/activemail/pkg/errx"

var sesErrors = errx.NewRegistry("NOTIFX_SES")

var (
	ErrSendFailed = sesErrors.Register("SEND_FAILED", errx.TypeExternal, 502, "SES send email failed")
	ErrNoSender   = sesErrors.Register("NO_SENDER", errx.TypeValidation, 400, "No sender address for SES message")
)
