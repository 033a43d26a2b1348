package booking

import (
	"github.com/shopspring/decimal"
)

// Quote is the derived price of a reservation. It is never persisted; it is
// recomputed from live catalog prices each time it is requested.
type Quote struct {
	Nights           int             `json:"length_of_stay"`
	CabinSubtotal    decimal.Decimal `json:"cabin_subtotal"`
	ServicesSubtotal decimal.Decimal `json:"services_subtotal"`
	Total            decimal.Decimal `json:"total"`
}

// Price computes the cabin subtotal (rate x nights), the sum of the attached
// service prices and the grand total.
func Price(stay Stay, pricePerNight decimal.Decimal, servicePrices []decimal.Decimal) (Quote, error) {
	nights, err := stay.Nights()
	if err != nil {
		return Quote{}, err
	}

	cabin := pricePerNight.Mul(decimal.NewFromInt(int64(nights)))
	services := decimal.Sum(decimal.Zero, servicePrices...)

	return Quote{
		Nights:           nights,
		CabinSubtotal:    cabin,
		ServicesSubtotal: services,
		Total:            cabin.Add(services),
	}, nil
}
