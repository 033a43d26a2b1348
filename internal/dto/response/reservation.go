package response

import (
	"time"

	"cabin-booking/internal/booking"
	"cabin-booking/internal/data/entity"
)

type ReservationResponse struct {
	ID         string     `json:"id"`
	CabinID    string     `json:"cabin"`
	CustomerID string     `json:"customer"`
	OwnerID    string     `json:"owner"`
	ServiceIDs []string   `json:"services"`
	StartDate  string     `json:"start_date"`
	EndDate    string     `json:"end_date"`
	CreatedAt  time.Time  `json:"created_at"`
	AcceptedAt *time.Time `json:"accepted_at"`
	CanceledAt *time.Time `json:"canceled_at"`
}

func ReservationToResponse(r *entity.Reservation) ReservationResponse {
	services := make([]string, len(r.ServiceIDs))
	for i, id := range r.ServiceIDs {
		services[i] = id.String()
	}

	return ReservationResponse{
		ID:         r.ID.String(),
		CabinID:    r.CabinID.String(),
		CustomerID: r.CustomerID.String(),
		OwnerID:    r.OwnerID.String(),
		ServiceIDs: services,
		StartDate:  r.StartDate.Format(booking.DateLayout),
		EndDate:    r.EndDate.Format(booking.DateLayout),
		CreatedAt:  r.CreatedAt,
		AcceptedAt: r.AcceptedAt,
		CanceledAt: r.CanceledAt,
	}
}

// PriceResponse renders amounts with two decimals.
type PriceResponse struct {
	ReservationID    string `json:"reservation_id"`
	LengthOfStay     int    `json:"length_of_stay"`
	PricePerNight    string `json:"price_per_night"`
	CabinSubtotal    string `json:"cabin_subtotal"`
	ServicesSubtotal string `json:"services_subtotal"`
	Total            string `json:"total"`
}

func QuoteToResponse(reservation *entity.Reservation, cabin *entity.Cabin, q booking.Quote) PriceResponse {
	return PriceResponse{
		ReservationID:    reservation.ID.String(),
		LengthOfStay:     q.Nights,
		PricePerNight:    cabin.PricePerNight.StringFixed(2),
		CabinSubtotal:    q.CabinSubtotal.StringFixed(2),
		ServicesSubtotal: q.ServicesSubtotal.StringFixed(2),
		Total:            q.Total.StringFixed(2),
	}
}
