// Package tmplstore holds the template override stores an activemsg.Client
// can read from, and the contracts shared by them.
package tmplstore

import (
	"context"
	"encoding/json"
	"regexp"

	"github.com/Abraxas-365/activemail/pkg/activemsg"
	"github.com/Abraxas-365/activemail/pkg/errx"
)

var storeErrors = errx.NewRegistry("TMPLSTORE")

var (
	ErrInvalidName = storeErrors.Register("INVALID_NAME", errx.TypeValidation, 400, "Invalid template name")
	ErrDecode      = storeErrors.Register("DECODE", errx.TypeInternal, 500, "Stored template is not a JSON object")
	ErrEncode      = storeErrors.Register("ENCODE", errx.TypeValidation, 400, "Template override cannot be encoded")
	ErrBackend     = storeErrors.Register("BACKEND", errx.TypeExternal, 502, "Template backend failed")
)

// Writer stores and removes overrides.
type Writer interface {
	Save(ctx context.Context, name string, override activemsg.TemplateOverride) error
	Delete(ctx context.Context, name string) error
}

// Lister enumerates stored template names.
type Lister interface {
	Names(ctx context.Context) ([]string, error)
}

// Store is a template store that can also be edited.
type Store interface {
	activemsg.TemplateStore
	Writer
	Lister
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9_.-]*$`)

// ValidateName rejects names that cannot be used as a key, file name or
// redis key suffix.
func ValidateName(name string) error {
	if len(name) > 128 || !namePattern.MatchString(name) {
		return storeErrors.New(ErrInvalidName).WithDetail("template", name)
	}
	return nil
}

// Decode parses a stored JSON object. Empty input decodes to a nil override.
func Decode(name string, data []byte) (activemsg.TemplateOverride, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var o activemsg.TemplateOverride
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, storeErrors.NewWithCause(ErrDecode, err).WithDetail("template", name)
	}
	return o, nil
}

// Encode renders an override as a JSON object; nil encodes to {}.
func Encode(name string, o activemsg.TemplateOverride) ([]byte, error) {
	if o == nil {
		o = activemsg.TemplateOverride{}
	}
	data, err := json.Marshal(o)
	if err != nil {
		return nil, storeErrors.NewWithCause(ErrEncode, err).WithDetail("template", name)
	}
	return data, nil
}

// Backend wraps a failure of the underlying storage.
func Backend(name string, err error) *errx.Error {
	return storeErrors.NewWithCause(ErrBackend, err).WithDetail("template", name)
}
