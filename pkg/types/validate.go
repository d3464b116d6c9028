package types

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Validator checks one field value. It returns an error whose text is shown
// next to the field.
type Validator func(value any) error

// Required rejects nil and blank strings.
func Required() Validator {
	return func(v any) error {
		if v == nil || strings.TrimSpace(StringValue(v)) == "" {
			return errors.New("is required")
		}
		return nil
	}
}

// Email accepts an empty value or a single bare address.
func Email() Validator {
	return func(v any) error {
		s := strings.TrimSpace(StringValue(v))
		if s == "" {
			return nil
		}
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s {
			return errors.New("must be a valid email address")
		}
		return nil
	}
}

// MaxLength rejects strings longer than n runes.
func MaxLength(n int) Validator {
	return func(v any) error {
		if utf8.RuneCountInString(StringValue(v)) > n {
			return fmt.Errorf("must be at most %d characters", n)
		}
		return nil
	}
}

// NonNegative accepts empty values and numbers >= 0.
func NonNegative() Validator {
	return func(v any) error {
		if v == nil || StringValue(v) == "" {
			return nil
		}
		n, ok := NumberValue(v)
		if !ok {
			return errors.New("must be a number")
		}
		if n < 0 {
			return errors.New("must not be negative")
		}
		return nil
	}
}

// OneOf accepts empty values and the listed options.
func OneOf(options ...string) Validator {
	return func(v any) error {
		s := StringValue(v)
		if s == "" {
			return nil
		}
		for _, o := range options {
			if s == o {
				return nil
			}
		}
		return fmt.Errorf("must be one of %s", strings.Join(options, ", "))
	}
}
