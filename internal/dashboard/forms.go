package dashboard

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// LoginForm collects the credentials typed at the login prompt.
type LoginForm struct {
	Identifier string `validate:"required"`
	Password   string `validate:"required"`
}

// RegistrationForm collects the sign-up fields.
type RegistrationForm struct {
	Username string `validate:"required,min=3"`
	Password string `validate:"required,min=6"`
	Email    string `validate:"required,email"`
	Name     string `validate:"required"`
	Surname  string `validate:"required"`
	Address  string `validate:"required"`
	Phone    string `validate:"required"`
}

// ProfileForm collects the editable owner fields.
type ProfileForm struct {
	Name    string `validate:"required"`
	Surname string `validate:"required"`
	Email   string `validate:"required,email"`
	Phone   string `validate:"required"`
	Address string `validate:"required"`
}

// PasswordForm collects a password change. The confirmation never leaves the
// console; only old and new are sent.
type PasswordForm struct {
	Old     string `validate:"required"`
	New     string `validate:"required,min=6"`
	Confirm string `validate:"required,eqfield=New"`
}

// CashierForm collects an admin-initiated teller creation.
type CashierForm struct {
	Username string `validate:"required,min=3"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// Check validates a form for callers outside the dashboards, the login and
// registration prompts mainly.
func Check(form any) error {
	return checkForm(form)
}

// checkForm runs struct validation and reduces failures to one message per
// field, joined for inline display.
func checkForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var parts []string
	for _, fieldErr := range err.(validator.ValidationErrors) {
		parts = append(parts, describeField(fieldErr))
	}
	return fmt.Errorf("%s", strings.Join(parts, "; "))
}

func describeField(fieldErr validator.FieldError) string {
	field := strings.ToLower(fieldErr.Field())
	switch fieldErr.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fieldErr.Param())
	case "eqfield":
		return "passwords do not match"
	default:
		return field + " is invalid"
	}
}
