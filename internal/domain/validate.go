package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Decimal amounts are compared exactly, never through float64
	if err := v.RegisterValidation("dec_gte", decimalGTE); err != nil {
		panic(err)
	}

	return v
}

// decimalGTE implements dec_gte=<bound> for decimal.Decimal fields
func decimalGTE(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return d.Cmp(decimal.RequireFromString(fl.Param())) >= 0
}

// Validate checks v against its validate tags and returns a *ValidationError
// describing every rejected field
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewValidationError("body", err.Error())
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, FieldError{
			Field:   fieldPath(fe),
			Message: fieldMessage(fe),
		})
	}
	return verr
}

// fieldPath drops the top-level struct name from the namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "oneof":
		return "Value must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "gte", "dec_gte":
		return "Value must be greater than or equal to " + fe.Param()
	case "lte":
		return "Value must be less than or equal to " + fe.Param()
	case "gt":
		return "Value must be greater than " + fe.Param()
	case "lt":
		return "Value must be less than " + fe.Param()
	default:
		return "Invalid value"
	}
}
