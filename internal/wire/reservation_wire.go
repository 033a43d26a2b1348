package wire

import (
	"net/http"

	"cabin-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireReservation(r chi.Router, reservationHandler *adaptor.ReservationHandler, auth func(http.Handler) http.Handler) {
	r.Route("/api/reservations", func(r chi.Router) {
		r.Use(auth)

		r.Post("/", reservationHandler.Create)
		r.Get("/", reservationHandler.List)
		r.Get("/{id}", reservationHandler.Get)
		r.Put("/{id}", reservationHandler.Update)
		r.Delete("/{id}", reservationHandler.Delete)
		r.Get("/{id}/price", reservationHandler.Price)
		r.Get("/{id}/invoice", reservationHandler.Invoice)
	})
}
