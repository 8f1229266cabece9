package pkg

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/simp-lee/fieldops/internal/domain"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9()\-.\s]{7,20}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// FirstError returns the first non-nil error.
func FirstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Required checks that a trimmed string is not empty.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewValidationError(field + " is required")
	}
	return nil
}

// MaxLength checks that value has at most n characters.
func MaxLength(field, value string, n int) error {
	if utf8.RuneCountInString(value) > n {
		return domain.NewValidationError(field + " must be at most " + strconv.Itoa(n) + " characters")
	}
	return nil
}

// Email checks that value is a valid email address.
func Email(field, value string) error {
	if err := validate.Var(value, "required,email"); err != nil {
		return domain.NewValidationError(field + " must be a valid email format")
	}
	return nil
}

// Phone checks that a non-empty value looks like a phone number.
func Phone(field, value string) error {
	if value == "" {
		return nil
	}
	if err := validate.Var(value, "phone"); err != nil {
		return domain.NewValidationError(field + " must be a valid phone number")
	}
	return nil
}

// OneOf checks that value is one of allowed.
func OneOf(field, value string, allowed []string) error {
	if err := validate.Var(value, "oneof="+strings.Join(allowed, " ")); err != nil {
		return domain.NewValidationError(field + " must be one of: " + strings.Join(allowed, ", "))
	}
	return nil
}

// RequiredID checks that a foreign key is set.
func RequiredID(field string, id uint) error {
	if id == 0 {
		return domain.NewValidationError(field + " is required")
	}
	return nil
}

// NonNegative checks that d >= 0.
func NonNegative(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return domain.NewValidationError(field + " must not be negative")
	}
	return nil
}

// Positive checks that d > 0.
func Positive(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return domain.NewValidationError(field + " must be greater than zero")
	}
	return nil
}

// NotBefore checks that end is not before start. Either being nil skips the check.
func NotBefore(startField string, start *time.Time, endField string, end *time.Time) error {
	if start == nil || end == nil {
		return nil
	}
	if end.Before(*start) {
		return domain.NewValidationError(endField + " must not be before " + startField)
	}
	return nil
}
