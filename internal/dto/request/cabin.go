package request

// CabinListRequest is bound from query parameters of GET /api/cabins.
type CabinListRequest struct {
	PaginatedRequest
	Area      string `validate:"max=100"`
	ZipCode   string `validate:"omitempty,len=5,numeric"`
	NumOfBeds int    `validate:"min=0"`
}

type AvailabilityRequest struct {
	Start   string `validate:"required,datetime=2006-01-02"`
	End     string `validate:"required,datetime=2006-01-02"`
	Exclude string `validate:"omitempty,uuid"`
}
