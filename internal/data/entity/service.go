package entity

import "github.com/shopspring/decimal"

// Service is a priced add-on (sauna, hot tub, ...) offered within an area.
type Service struct {
	BaseNoDelete
	Area         string          `db:"area"`
	Name         string          `db:"name"`
	Description  string          `db:"description"`
	ServicePrice decimal.Decimal `db:"service_price"`
	VATPrice     decimal.Decimal `db:"vat_price"`
}
