// internal/validator/validator.go
package validator

import (
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

var (
	nonBlank      = regexp.MustCompile(`\S`)
	cashbackRange = regexp.MustCompile(`^\d{1,3}(-\d{0,3})?$`)
)

func init() {
	Validate = validator.New()

	// Field names in messages follow the json tags the client sends.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	// Numbers must be real: JSON cannot carry NaN or Inf, but the bot parses
	// free text with strconv, which accepts both.
	_ = Validate.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Float32, reflect.Float64:
			f := fl.Field().Float()
			return !math.IsNaN(f) && !math.IsInf(f, 0)
		default:
			return true
		}
	})

	// not empty and not only whitespace
	_ = Validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return nonBlank.MatchString(fl.Field().String())
	})

	_ = Validate.RegisterValidation("feerange", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "all", "free", "low", "medium", "high":
			return true
		}
		return false
	})

	_ = Validate.RegisterValidation("cashbackrange", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "all" || cashbackRange.MatchString(s)
	})
}
