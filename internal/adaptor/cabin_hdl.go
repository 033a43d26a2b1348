package adaptor

import (
	"net/http"

	"cabin-booking/internal/dto/request"
	"cabin-booking/internal/usecase"
	"cabin-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CabinHandler struct {
	service usecase.CabinService
	log     *zap.Logger
}

func NewCabinHandler(service usecase.CabinService, log *zap.Logger) *CabinHandler {
	return &CabinHandler{
		service: service,
		log:     log.With(zap.String("handler", "cabin")),
	}
}

// List handles GET /api/cabins?area=&zip_code=&num_of_beds=&page=&per_page=
func (h *CabinHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := request.CabinListRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(q.Get("page"), 1),
			PerPage: utils.ParseInt(q.Get("per_page"), 10),
		},
		Area:      q.Get("area"),
		ZipCode:   q.Get("zip_code"),
		NumOfBeds: utils.ParseInt(q.Get("num_of_beds"), 0),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	cabins, err := h.service.List(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "list cabins")
		return
	}

	utils.ResponseSuccess(w, "success", cabins)
}

// Get handles GET /api/cabins/{id}
func (h *CabinHandler) Get(w http.ResponseWriter, r *http.Request) {
	cabin, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get cabin")
		return
	}

	utils.ResponseSuccess(w, "success", cabin)
}
