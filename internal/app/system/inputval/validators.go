package inputval

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError is one validation failure with a message suitable for
// returning to the client.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result collects the failures from a Validate call.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any field failed validation.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// First returns the first error message, or "" when validation passed.
// Handlers typically return just the first problem.
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every error message with "; " for log lines and audit
// details.
func (r *Result) All() string {
	if len(r.Errors) == 0 {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Friendly labels come from the `label` struct tag, falling
		// back to the Go field name.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if label := fld.Tag.Get("label"); label != "" {
				return label
			}
			return fld.Name
		})

		must := func(err error) {
			if err != nil {
				panic(err)
			}
		}
		// Override the builtin email tag; IsValidEmail is stricter
		// about display-name forms and whitespace.
		must(validate.RegisterValidation("email", func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		}))
		must(validate.RegisterValidation("givingmethod", func(fl validator.FieldLevel) bool {
			return IsValidGivingMethod(fl.Field().String())
		}))
		must(validate.RegisterValidation("dateymd", func(fl validator.FieldLevel) bool {
			return IsValidDate(fl.Field().String())
		}))
		must(validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return IsValidPhone(fl.Field().String())
		}))
		must(validate.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
			return IsValidHTTPURL(fl.Field().String())
		}))
		must(validate.RegisterValidation("uuidstr", func(fl validator.FieldLevel) bool {
			return IsValidUUID(fl.Field().String())
		}))
	})
	return validate
}

// Validate checks input against its `validate` struct tags and returns
// the failures in declaration order.
func Validate(input any) *Result {
	result := &Result{}

	err := validatorInstance().Struct(input)
	if err == nil {
		return result
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		result.Errors = append(result.Errors, FieldError{Message: "Invalid input."})
		return result
	}

	for _, fe := range verrs {
		result.Errors = append(result.Errors, FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return result
}

func messageFor(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", label)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "email":
		return "A valid email address is required."
	case "givingmethod":
		return fmt.Sprintf("%s must be one of: %s.", label, strings.Join(AllowedGivingMethodsList(), ", "))
	case "dateymd":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD form.", label)
	case "phone":
		return fmt.Sprintf("%s must be a valid phone number.", label)
	case "httpurl":
		return fmt.Sprintf("%s must be an http or https URL.", label)
	case "uuidstr":
		return fmt.Sprintf("%s must be a valid id.", label)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s.", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s.", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid.", label)
	}
}
