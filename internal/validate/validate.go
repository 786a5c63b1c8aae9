// Package validate checks form inputs with go-playground/validator and
// turns the first failure into a Portuguese message fit for a toast.
// Field names in messages come from the `label` struct tag.
package validate

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// Error is a failed field check.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	return val
}

// Struct validates s and returns an *Error for the first failing field.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validating %T: %w", s, err)
	}
	fe := verrs[0]
	return &Error{Field: fe.StructField(), Message: message(fe)}
}

// Message extracts the user-facing text from a validation error, or ""
// when err is not one.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return label + " é obrigatório."
	case "min":
		return fmt.Sprintf("%s deve ter pelo menos %s caracteres.", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s deve ter no máximo %s caracteres.", label, fe.Param())
	case "url", "http_url":
		return label + " deve ser uma URL válida."
	case "email":
		return label + " deve ser um e-mail válido."
	case "eqfield":
		return "As senhas não coincidem."
	}
	return label + " é inválido."
}
