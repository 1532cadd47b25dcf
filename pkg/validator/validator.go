package validator

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/gamassss/slinkr/pkg/response"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var slugPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

func init() {
	validate = validator.New()

	validate.RegisterValidation("slug", validateSlug)
}

func Validate(data interface{}) []response.ValidationError {
	var validationErrors []response.ValidationError

	err := validate.Struct(data)
	if err != nil {
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			return []response.ValidationError{{Message: err.Error()}}
		}

		for _, err := range fieldErrors {
			validationErrors = append(validationErrors, response.ValidationError{
				Field:   err.Field(),
				Message: getErrorMessage(err),
			})
		}
	}

	return validationErrors
}

func validateSlug(fl validator.FieldLevel) bool {
	return slugPattern.MatchString(fl.Field().String())
}

func getErrorMessage(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, err.Param())
	case "slug":
		return fmt.Sprintf("%s may only contain letters, digits and hyphens", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
