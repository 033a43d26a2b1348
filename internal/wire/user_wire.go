package wire

import (
	"net/http"

	"cabin-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler, auth func(http.Handler) http.Handler) {
	r.With(auth).Get("/api/user/profile", userHandler.GetProfile)
}
