package response

import "cabin-booking/internal/data/entity"

type CabinResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	PricePerNight string  `json:"price_per_night"`
	Area          string  `json:"area"`
	ZipCode       string  `json:"zip_code"`
	NumOfBeds     int     `json:"num_of_beds"`
	Address       *string `json:"address,omitempty"`
}

func CabinToResponse(c *entity.Cabin) CabinResponse {
	return CabinResponse{
		ID:            c.ID.String(),
		Name:          c.Name,
		Description:   c.Description,
		PricePerNight: c.PricePerNight.StringFixed(2),
		Area:          c.Area,
		ZipCode:       c.ZipCode,
		NumOfBeds:     c.NumOfBeds,
		Address:       c.Address,
	}
}

type AvailabilityResponse struct {
	CabinID   string  `json:"cabin_id"`
	Start     string  `json:"start"`
	End       string  `json:"end"`
	Exclude   *string `json:"exclude,omitempty"`
	Available bool    `json:"available"`
}
