package errx

import (
	"github.com/gofiber/fiber/v2"
)

// HTTPErrorResponse is the JSON body written for a failed request
type HTTPErrorResponse struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Type       string                 `json:"type"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"status_code"`
}

// ToHTTPResponse converts an Error to an HTTPErrorResponse
func (e *Error) ToHTTPResponse() HTTPErrorResponse {
	return HTTPErrorResponse{
		Code:       e.Code,
		Message:    e.Message,
		Type:       string(e.Type),
		Details:    e.Details,
		StatusCode: e.HTTPStatus,
	}
}

// FiberErrorHandler renders any error returned by a handler as an HTTPErrorResponse.
// Fiber's own errors keep their status code.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	var customErr *Error
	if As(err, &customErr) {
		return c.Status(customErr.HTTPStatus).JSON(customErr.ToHTTPResponse())
	}

	var fiberErr *fiber.Error
	if As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(HTTPErrorResponse{
			Code:       "HTTP",
			Message:    fiberErr.Message,
			Type:       string(TypeValidation),
			StatusCode: fiberErr.Code,
		})
	}

	internal := New(err.Error(), TypeInternal)
	return c.Status(internal.HTTPStatus).JSON(internal.ToHTTPResponse())
}
