package adaptor

import (
	"errors"
	"net/http"

	"cabin-booking/internal/booking"
	"cabin-booking/internal/usecase"
	"cabin-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth        *AuthHandler
	User        *UserHandler
	Cabin       *CabinHandler
	Reservation *ReservationHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(service.Auth, log),
		User:        NewUserHandler(service.User, log),
		Cabin:       NewCabinHandler(service.Cabin, log),
		Reservation: NewReservationHandler(service.Reservation, log),
	}
}

// handleServiceError maps domain errors to HTTP statuses. Anything
// unrecognised is logged and reported as 500 without detail.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, booking.ErrOverlap):
		log.Info(operation+" rejected - overlap", zap.Error(err))
		utils.ResponseConflict(w, booking.ErrOverlap.Error())

	case errors.Is(err, booking.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, booking.ErrState),
		errors.Is(err, booking.ErrInvalidRange),
		errors.Is(err, usecase.ErrValidation),
		errors.Is(err, usecase.ErrDuplicate):
		log.Warn(operation+" failed - bad request", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, booking.ErrTokenExpired),
		errors.Is(err, booking.ErrUnauthenticated):
		log.Warn(operation+" failed - unauthenticated", zap.Error(err))
		utils.ResponseUnauthorized(w, err.Error())

	case errors.Is(err, booking.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
