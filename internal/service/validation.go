package service

import (
	"github.com/go-playground/validator/v10"
	"github.com/isep-jornadas/checkin/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput runs the struct tags of in. Field errors collapse into a
// single caller-facing message; the field detail is kept as the cause.
func validateInput(in any, message string) error {
	if err := validate.Struct(in); err != nil {
		return &domain.Error{Kind: domain.KindValidation, Message: message, Err: err}
	}
	return nil
}
