package usecase

import (
	"cabin-booking/internal/data/cache"
	"cabin-booking/internal/data/repository"
	"cabin-booking/internal/queue"
	"cabin-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth        AuthService
	User        UserService
	Cabin       CabinService
	Reservation ReservationService
}

func NewService(
	repo *repository.Repository,
	availability cache.AvailabilityCache,
	publisher queue.Publisher,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:        NewAuthService(repo, config, log),
		User:        NewUserService(repo.User, log),
		Cabin:       NewCabinService(repo, log),
		Reservation: NewReservationService(repo, availability, publisher, log),
	}
}
