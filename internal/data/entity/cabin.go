package entity

import "github.com/shopspring/decimal"

type Cabin struct {
	BaseNoDelete
	Name          string          `db:"name"`
	Description   string          `db:"description"`
	PricePerNight decimal.Decimal `db:"price_per_night"`
	Area          string          `db:"area"`
	ZipCode       string          `db:"zip_code"`
	NumOfBeds     int             `db:"num_of_beds"`
	Address       *string         `db:"address"`
}
