package usecase

import (
	"errors"
	"fmt"

	"cabin-booking/internal/booking"
	"cabin-booking/pkg/utils"

	"github.com/google/uuid"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrDuplicate  = errors.New("already registered")

	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", booking.ErrUnauthenticated)
	ErrAccountInactive    = fmt.Errorf("account is deactivated: %w", booking.ErrForbidden)
)

func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}
	return nil
}

func parseID(kind, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s id %q", ErrValidation, kind, raw)
	}
	return id, nil
}
