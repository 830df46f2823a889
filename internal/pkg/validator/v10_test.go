package validator

import (
	"errors"
	"strings"
	"testing"
)

func TestV10Validator(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("build validator: %v", err)
	}

	t.Run("PasswordRule", func(t *testing.T) {
		type in struct {
			Password string `validate:"required,password"`
		}

		cases := []struct {
			name     string
			password string
			valid    bool
		}{
			{"MinimumLength", "8chars!!", true},
			{"TooShort", "short", false},
			{"At72Bytes", strings.Repeat("a", 72), true},
			{"Over72Bytes", strings.Repeat("a", 73), false},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				err := v.Validate(in{Password: tc.password})
				if tc.valid && err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				if !tc.valid && err == nil {
					t.Fatal("expected validation error")
				}
			})
		}
	})

	t.Run("PinRule", func(t *testing.T) {
		type in struct {
			Pin string `validate:"required,pin"`
		}

		cases := []struct {
			name  string
			pin   string
			valid bool
		}{
			{"SixDigits", "135790", true},
			{"LeadingZeros", "000042", true},
			{"FiveDigits", "13579", false},
			{"SevenDigits", "1357901", false},
			{"Letters", "13579a", false},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				err := v.Validate(in{Pin: tc.pin})
				if tc.valid && err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				if !tc.valid && err == nil {
					t.Fatal("expected validation error")
				}
			})
		}
	})

	t.Run("OTPRule", func(t *testing.T) {
		type in struct {
			Code string `validate:"required,otp"`
		}

		if err := v.Validate(in{Code: "424242"}); err != nil {
			t.Fatalf("expected valid code, got %v", err)
		}
		if err := v.Validate(in{Code: "42 42"}); err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("FieldNamesAreSnakeCase", func(t *testing.T) {
		type in struct {
			FullName string `validate:"required"`
		}

		err := v.Validate(in{})
		if err == nil {
			t.Fatal("expected validation error")
		}

		var verr V10ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected V10ValidationError, got %T", err)
		}
		if _, ok := verr.Values()["full_name"]; !ok {
			t.Fatalf("expected snake_case field key, got %v", verr.Values())
		}
	})
}
