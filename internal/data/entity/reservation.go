package entity

import (
	"time"

	"cabin-booking/internal/booking"

	"github.com/google/uuid"
)

type Reservation struct {
	ID         uuid.UUID   `db:"id"`
	CabinID    uuid.UUID   `db:"cabin_id"`
	CustomerID uuid.UUID   `db:"customer_id"`
	OwnerID    uuid.UUID   `db:"owner_id"`
	ServiceIDs []uuid.UUID `db:"-"`
	StartDate  time.Time   `db:"start_date"`
	EndDate    time.Time   `db:"end_date"`
	CreatedAt  time.Time   `db:"created_at"`
	AcceptedAt *time.Time  `db:"accepted_at"`
	CanceledAt *time.Time  `db:"canceled_at"`
}

func (r *Reservation) Stay() booking.Stay {
	return booking.NewStay(r.StartDate, r.EndDate)
}

func (r *Reservation) IsCanceled() bool {
	return r.CanceledAt != nil
}

func (r *Reservation) IsAccepted() bool {
	return r.AcceptedAt != nil
}

// InvolvesUser reports whether userID is the customer or the owner.
func (r *Reservation) InvolvesUser(userID uuid.UUID) bool {
	return r.CustomerID == userID || r.OwnerID == userID
}

// ReservationFilter narrows List. Nil fields are not applied.
type ReservationFilter struct {
	ID         *uuid.UUID
	CustomerID *uuid.UUID
	CabinID    *uuid.UUID
	// InvolvedUserID restricts results to reservations where the user is
	// customer or owner.
	InvolvedUserID *uuid.UUID
}
