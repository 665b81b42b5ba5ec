// Package validation wraps go-playground/validator for the use cases: struct
// fields are checked in declaration order and only the first violation is
// reported, with a message chosen per field and tag.
package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	pkgerrors "user-account-service/pkg/errors"
)

// Messages maps "Field.tag" (e.g. "Email.email") to the message returned to
// the caller when that rule fails first.
type Messages map[string]string

// New returns a validator with the non-standard notblank rule registered.
func New() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// FirstViolation converts the first validator.FieldError in err into a
// ValidationError using messages. Non-validation errors are returned as is.
func FirstViolation(err error, messages Messages) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	if msg, ok := messages[fe.StructField()+"."+fe.Tag()]; ok {
		return pkgerrors.NewValidationError(fe.StructField(), msg)
	}
	return pkgerrors.NewValidationError(fe.StructField(), defaultMessage(fe))
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
