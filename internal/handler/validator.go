package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Validator checks request bodies against their validate tags
type Validator struct {
	validate *validator.Validate
}

// GetValidator returns the shared validator, building it on first use
var GetValidator = sync.OnceValue(newValidator)

func newValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Field errors report the JSON name the client sent
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	for tag, fn := range map[string]validator.Func{
		TagItemID:   validateItemID,
		TagUserName: validateUserName,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
	return &Validator{validate: v}
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError maps each failing field to a client-facing message.
// Go struct names never appear in the output.
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"error": ErrMsgInvalidRequestFormat}
	}

	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case TagItemID:
		return "Invalid item id"
	case TagUserName:
		return "Contains invalid characters"
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	}
	return "Invalid value"
}

// validateItemID rejects blank ids and ids with whitespace or control characters
func validateItemID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	return id != "" && strings.IndexFunc(id, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) < 0
}

// blank names are left to the service
func validateUserName(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsControl) < 0
}
