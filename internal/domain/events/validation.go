package events

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var imageURLPattern = regexp.MustCompile(`^https?://.+`)

var validate = validator.New(validator.WithRequiredStructEnabled())

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ValidateEventInput applies the declarative schema rules to a full event
// submission. The first failing field is reported; callers treat any error
// as user-correctable.
func ValidateEventInput(input EventInput) error {
	if err := validate.Struct(input); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			first := fieldErrors[0]
			return ValidationError{
				Field:   strings.ToLower(first.Field()),
				Message: messageForTag(first),
			}
		}
		return ValidationError{Message: err.Error()}
	}

	if !imageURLPattern.MatchString(input.Image) {
		return ValidationError{Field: "image", Message: "must be a valid http(s) URL"}
	}
	return nil
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind().String() == "slice" {
			return fmt.Sprintf("must have at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters long", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
