// Package validation turns struct validation failures into a field -> message map
// that handlers can return to the client as-is.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/dine24/dine24-api/internal/models"
	"github.com/go-playground/validator/v10"
)

// MinPhoneLength is the minimum number of characters accepted for a phone number.
// Only the length is checked.
const MinPhoneLength = 10

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Result maps a JSON field name to a human readable error message
type Result map[string]string

// OK reports whether no field failed
func (r Result) OK() bool {
	return len(r) == 0
}

// Error implements error so a Result can travel through error returns
func (r Result) Error() string {
	fields := make([]string, 0, len(r))
	for f := range r {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+r[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a message for a field, keeping the first one
func (r Result) Add(field, message string) {
	if _, exists := r[field]; !exists {
		r[field] = message
	}
}

// Err returns nil when the result is empty, otherwise the result itself
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return r
}

// ValidEmail checks the address against the simple name@domain.tld pattern
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPhone checks only that the phone number is long enough
func ValidPhone(phone string) bool {
	return len(phone) >= MinPhoneLength
}

// Validator validates request structs using `validate` tags
type Validator struct {
	v *validator.Validate
}

// New creates a validator with the custom dineemail and phonelen rules registered
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("dineemail", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("phonelen", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})

	return &Validator{v: v}
}

// Struct validates s and returns a Result describing every failed field.
// A nil error means s is valid.
func (val *Validator) Struct(s interface{}) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	result := Result{}
	for _, fe := range verrs {
		result.Add(fe.Field(), message(fe))
	}
	return result
}

// Details validates the customer inputs of the first reservation step
func (val *Validator) Details(d models.ReservationDetails) error {
	d.FullName = strings.TrimSpace(d.FullName)
	d.Purpose = strings.TrimSpace(d.Purpose)
	return val.Struct(d)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "dineemail":
		return "Please enter a valid email address"
	case "phonelen":
		return "Please enter a valid phone number"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "lte", "max":
		return "must be at most " + fe.Param()
	case "datetime":
		return "must match format " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}

// AsResult extracts a Result from err, if it carries one
func AsResult(err error) (Result, bool) {
	var r Result
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
