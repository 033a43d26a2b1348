package request

type CreateReservationRequest struct {
	CabinID string `json:"cabin" validate:"required,uuid"`
	// CustomerID defaults to the caller. Only staff may book for someone else.
	CustomerID string   `json:"customer" validate:"omitempty,uuid"`
	OwnerID    string   `json:"owner" validate:"required,uuid"`
	ServiceIDs []string `json:"services" validate:"omitempty,dive,uuid"`
	StartDate  string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string   `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// UpdateReservationRequest is a partial update. Absent fields keep their
// value. Any non-empty accepted_at or canceled_at stamps the server time;
// created_at may never be sent.
type UpdateReservationRequest struct {
	CabinID    *string   `json:"cabin" validate:"omitempty,uuid"`
	CustomerID *string   `json:"customer" validate:"omitempty,uuid"`
	OwnerID    *string   `json:"owner" validate:"omitempty,uuid"`
	ServiceIDs *[]string `json:"services" validate:"omitempty,dive,uuid"`
	StartDate  *string   `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate    *string   `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	CreatedAt  *string   `json:"created_at"`
	AcceptedAt *string   `json:"accepted_at"`
	CanceledAt *string   `json:"canceled_at"`
}

// ReservationListRequest is bound from query parameters.
type ReservationListRequest struct {
	ID         string `validate:"omitempty,uuid"`
	CabinID    string `validate:"omitempty,uuid"`
	CustomerID string `validate:"omitempty,uuid"`
}
