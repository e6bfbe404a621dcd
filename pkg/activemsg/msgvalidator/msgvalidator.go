// Package msgvalidator checks active message attributes with
// go-playground/validator, reporting English messages per attribute.
package msgvalidator

import (
	"errors"
	"strings"

	"github.com/Abraxas-365/activemail/pkg/activemsg"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// ErrTranslatorNotFound indicates the English translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// Validator implements activemsg.Validator. Each attribute is validated on its
// own with its Rules as the tag.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

var _ activemsg.Validator = (*Validator)(nil)

// New constructs a Validator with English translations. The required rule
// reports "<name> cannot be blank." like activemsg.RequiredValidator.
func New() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}
	if err := registerTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	return &Validator{validate: validate, translator: enTrans}, nil
}

// Validate implements activemsg.Validator.
func (v *Validator) Validate(attrs []activemsg.Attribute) activemsg.FieldErrors {
	errs := make(activemsg.FieldErrors)
	for _, a := range attrs {
		if a.Rules == "" {
			continue
		}

		err := v.validate.VarWithKey(a.Name, normalize(a.Value), a.Rules)
		if err == nil {
			continue
		}

		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			errs[a.Name] = append(errs[a.Name], err.Error())
			continue
		}
		for _, fe := range fieldErrs {
			errs[a.Name] = append(errs[a.Name], fe.Translate(v.translator))
		}
	}
	return errs
}

// normalize makes whitespace-only text and empty lists fail required, the
// same way activemsg.IsBlank treats them.
func normalize(value any) any {
	switch t := value.(type) {
	case string:
		return strings.TrimSpace(t)
	case []string:
		if len(t) == 0 {
			return nil
		}
	}
	return value
}

func registerTranslations(validate *validator.Validate, enTrans ut.Translator) error {
	return validate.RegisterTranslation("required", enTrans,
		func(ut ut.Translator) error {
			return ut.Add("required", "{0} cannot be blank.", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, err := ut.T(fe.Tag(), fe.Field())
			if err != nil {
				return fe.Error()
			}
			return t
		},
	)
}
