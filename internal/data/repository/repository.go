package repository

import (
	"cabin-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User        UserRepository
	Session     SessionRepository
	Cabin       CabinRepository
	Service     ServiceRepository
	Reservation ReservationRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:        NewUserRepository(db, log),
		Session:     NewSessionRepository(db, log),
		Cabin:       NewCabinRepository(db, log),
		Service:     NewServiceRepository(db, log),
		Reservation: NewReservationRepository(db, log),
	}
}
