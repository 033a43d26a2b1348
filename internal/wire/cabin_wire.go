package wire

import (
	"cabin-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// Catalog and availability are public.
func wireCabin(r chi.Router, cabinHandler *adaptor.CabinHandler, reservationHandler *adaptor.ReservationHandler) {
	r.Route("/api/cabins", func(r chi.Router) {
		r.Get("/", cabinHandler.List)
		r.Get("/{id}", cabinHandler.Get)
		r.Get("/{id}/availability", reservationHandler.Availability)
	})
}
