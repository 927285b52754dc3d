package apperr

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// ValidationMessages renders one human readable message per failing field.
// Field names are whatever the validator was configured to report (json tag
// names in this service).
func ValidationMessages(errs validator.ValidationErrors) []string {
	out := make([]string, 0, len(errs))
	for _, fe := range errs {
		out = append(out, message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Please add a %s", field)
	case "email":
		return "Please add a valid email address"
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s can not have more than %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s can not be greater than %s chars", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s has to be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
