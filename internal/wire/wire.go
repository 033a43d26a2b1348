package wire

import (
	"net/http"

	"cabin-booking/internal/adaptor"
	"cabin-booking/internal/data/repository"
	"cabin-booking/internal/usecase"
	"cabin-booking/pkg/middleware"
	"cabin-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type App struct {
	Router *chi.Mux
}

// Wiring builds handlers over the given services and mounts every route.
// limiter may be nil, in which case requests are not rate limited.
func Wiring(
	repo *repository.Repository,
	service *usecase.Service,
	limiter *middleware.RateLimiter,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router: setupRouter(handler, repo, limiter, config, logger),
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	limiter *middleware.RateLimiter,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	if limiter != nil {
		r.Use(limiter.Handler)
	}

	auth := middleware.AuthSession(config.JWT.Secret, repo.Session, repo.User, logger)

	wireAuth(r, handler.Auth, auth)
	wireUser(r, handler.User, auth)
	wireCabin(r, handler.Cabin, handler.Reservation)
	wireReservation(r, handler.Reservation, auth)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
