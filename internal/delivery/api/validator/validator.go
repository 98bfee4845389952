// Package validator adapts go-playground/validator to echo.
package validator

import (
	"ferremas/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Validator implements echo.Validator.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *Validator) Validate(i any) error {
	return errors.WithStack(v.validate.Struct(i))
}
