// Package service provides business logic for the application.
package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError carries the user-facing message for a rejected input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Messages maps "field.tag" (json field name) to the message returned when
// that rule fails. A "field" key matches any tag on that field.
type Messages map[string]string

// Validator wraps go-playground/validator with per-input message tables.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator that reports json field names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates s and returns the message for the first failing field.
func (v *Validator) Struct(s any, msgs Messages) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	if msg, ok := msgs[fe.Field()+"."+fe.Tag()]; ok {
		return &ValidationError{Message: msg}
	}
	if msg, ok := msgs[fe.Field()]; ok {
		return &ValidationError{Message: msg}
	}
	return &ValidationError{Message: "Invalid " + fe.Field()}
}
