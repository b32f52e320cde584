// AngelaMos | 2026
// validation.go

package core

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const DateLayout = "2006-01-02"

var phoneDigits = regexp.MustCompile(`\d`)

// NewValidator returns a validator with the CRM-specific tags registered:
// phone, forecast and isodate.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	//nolint:errcheck // tag names are static and valid
	_ = v.RegisterValidation("phone", validatePhone)
	//nolint:errcheck // tag names are static and valid
	_ = v.RegisterValidation("forecast", validateForecast)
	//nolint:errcheck // tag names are static and valid
	_ = v.RegisterValidation("isodate", validateISODate)
	//nolint:errcheck // tag names are static and valid
	_ = v.RegisterValidation("notblank", validateNotBlank)

	return v
}

// Phone numbers are free-form but must carry between 7 and 15 digits.
func validatePhone(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	n := len(phoneDigits.FindAllString(value, -1))
	return n >= 7 && n <= 15
}

func validateForecast(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return IsValidForecast(value)
}

func validateISODate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := time.Parse(DateLayout, value)
	return err == nil
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func IsValidForecast(value string) bool {
	n, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64)
	if err != nil {
		return false
	}
	return n >= 0 && n <= 100
}

// ParseDate parses an optional YYYY-MM-DD value; empty yields nil.
func ParseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", value, ErrInvalidInput)
	}
	return &t, nil
}

func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

func FormatValidationError(err error) string {
	return strings.Join(ValidationDetails(err), "; ")
}

func ValidationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, describeFieldError(fe))
	}
	return details
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf(
			"%s must be one of: %s",
			field,
			strings.ReplaceAll(fe.Param(), " ", ", "),
		)
	case "phone":
		return fmt.Sprintf("%s must contain 7 to 15 digits", field)
	case "forecast":
		return fmt.Sprintf("%s must be between 0%% and 100%%", field)
	case "salesstage":
		return fmt.Sprintf("%s must be a known sales stage", field)
	case "isodate":
		return fmt.Sprintf("%s must use the YYYY-MM-DD format", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid identifier", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
