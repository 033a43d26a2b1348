package adaptor

import (
	"encoding/json"
	"net/http"

	"cabin-booking/internal/booking"
	"cabin-booking/internal/dto/request"
	"cabin-booking/internal/dto/response"
	"cabin-booking/internal/usecase"
	"cabin-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReservationHandler struct {
	service usecase.ReservationService
	log     *zap.Logger
}

func NewReservationHandler(service usecase.ReservationService, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log.With(zap.String("handler", "reservation")),
	}
}

// Create handles POST /api/reservations (protected)
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := utils.GetPrincipalFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	reservation, err := h.service.Create(r.Context(), principal, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create reservation")
		return
	}

	utils.ResponseCreated(w, "Reservation created", reservation)
}

// List handles GET /api/reservations?id=&cabin_id=&customer_id= (protected)
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := utils.GetPrincipalFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	q := r.URL.Query()
	req := request.ReservationListRequest{
		ID:         q.Get("id"),
		CabinID:    q.Get("cabin_id"),
		CustomerID: q.Get("customer_id"),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	reservations, err := h.service.List(r.Context(), principal, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "list reservations")
		return
	}

	utils.ResponseSuccess(w, "success", reservations)
}

// Get handles GET /api/reservations/{id} (protected)
func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := utils.GetPrincipalFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	reservation, err := h.service.Get(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get reservation")
		return
	}

	utils.ResponseSuccess(w, "success", reservation)
}

// Update handles PUT /api/reservations/{id} (protected)
func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := utils.GetPrincipalFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	reservation, err := h.service.Update(r.Context(), principal, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update reservation")
		return
	}

	utils.ResponseSuccess(w, "Reservation updated", reservation)
}

// Delete handles DELETE /api/reservations/{id} (protected)
func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := utils.GetPrincipalFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), principal, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete reservation")
		return
	}

	utils.ResponseSuccess(w, "Reservation deleted", nil)
}

// Price handles GET /api/reservations/{id}/price (protected)
func (h *ReservationHandler) Price(w http.ResponseWriter, r *http.Request) {
	principal, ok := utils.GetPrincipalFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	price, err := h.service.GetPrice(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "price reservation")
		return
	}

	utils.ResponseSuccess(w, "success", price)
}

// Invoice handles GET /api/reservations/{id}/invoice (protected)
func (h *ReservationHandler) Invoice(w http.ResponseWriter, r *http.Request) {
	principal, ok := utils.GetPrincipalFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	invoice, err := h.service.GetInvoice(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "invoice reservation")
		return
	}

	utils.ResponseText(w, http.StatusOK, invoice)
}

// Availability handles GET /api/cabins/{id}/availability?start=&end=&exclude=
func (h *ReservationHandler) Availability(w http.ResponseWriter, r *http.Request) {
	cabinID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid cabin id", nil)
		return
	}

	q := r.URL.Query()
	req := request.AvailabilityRequest{
		Start:   q.Get("start"),
		End:     q.Get("end"),
		Exclude: q.Get("exclude"),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	start, _ := booking.ParseDate(req.Start)
	end, _ := booking.ParseDate(req.End)
	exclude, _ := utils.ParseOptionalUUID(req.Exclude)

	available, err := h.service.CheckAvailability(r.Context(), cabinID, start, end, exclude)
	if err != nil {
		handleServiceError(w, h.log, err, "check availability")
		return
	}

	resp := response.AvailabilityResponse{
		CabinID:   cabinID.String(),
		Start:     req.Start,
		End:       req.End,
		Available: available,
	}
	if exclude != nil {
		resp.Exclude = &req.Exclude
	}

	utils.ResponseSuccess(w, "success", resp)
}
