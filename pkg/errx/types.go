package errx

import "net/http"

// Type represents the category of error
type Type string

const (
	TypeInternal   Type = "INTERNAL"
	TypeValidation Type = "VALIDATION"
	TypeNotFound   Type = "NOT_FOUND"
	TypeConflict   Type = "CONFLICT"
	// TypeAuthorization is a rejected or missing credential.
	TypeAuthorization Type = "AUTHORIZATION"
	// TypeBusiness is a well-formed request the current state refuses.
	TypeBusiness Type = "BUSINESS"
	// TypeExternal is a failure of a backing service: store, queue or provider.
	TypeExternal Type = "EXTERNAL"
	// TypeUnavailable is a feature the running configuration leaves out.
	TypeUnavailable Type = "UNAVAILABLE"
)

// String returns the string representation of the error type
func (t Type) String() string {
	return string(t)
}

// HTTPStatus is the status used for errors of this type that were not
// registered with one.
func (t Type) HTTPStatus() int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeAuthorization:
		return http.StatusUnauthorized
	case TypeBusiness:
		return http.StatusUnprocessableEntity
	case TypeExternal:
		return http.StatusBadGateway
	case TypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
