// Package validate wraps go-playground/validator with the tags the API relies on.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/currency"

	"github.com/MrJamesThe3rd/budgetly/internal/apperr"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		if err := v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
			return IsCurrency(fl.Field().String())
		}); err != nil {
			panic(fmt.Sprintf("registering currency validation: %v", err))
		}

		instance = v
	})

	return instance
}

// IsCurrency reports whether code is a recognised ISO 4217 currency code.
func IsCurrency(code string) bool {
	if len(code) != 3 || strings.ToUpper(code) != code {
		return false
	}

	_, err := currency.ParseISO(code)

	return err == nil
}

// Struct validates s and converts failures into a validation apperr whose message names
// the first offending field.
func Struct(s any) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperr.Validation(describe(verrs[0]), err)
	}

	return apperr.Validation("invalid input", err)
}

func describe(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "currency":
		return fmt.Sprintf("%s must be an ISO 4217 currency code", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	}

	return fmt.Sprintf("%s is invalid", field)
}
