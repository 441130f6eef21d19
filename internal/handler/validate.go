// internal/handler/validate.go
package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	val "travel-cards/internal/validator"
)

func validateStruct(v any) error {
	if err := val.Validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("invalid input: %w", err)
		}
		var errs []string
		for _, e := range verrs {
			errs = append(errs, fieldErrorToString(e))
		}
		return fmt.Errorf("invalid input: %s", strings.Join(errs, "; "))
	}
	return nil
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", e.Field())
	case "finite":
		return fmt.Sprintf("%s must be a finite number", e.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("%s is too long", e.Field())
	case "feerange":
		return fmt.Sprintf("%s must be one of all, free, low, medium, high", e.Field())
	case "cashbackrange":
		return fmt.Sprintf("%s must be a range like 6-10", e.Field())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}
