package booking

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderInvoice_WithServices(t *testing.T) {
	data := InvoiceData{
		CustomerName:  "John Doe",
		CheckIn:       date(t, "2021-01-01"),
		CheckOut:      date(t, "2021-01-03"),
		CabinName:     "Test Cabin",
		PricePerNight: decimal.NewFromInt(100),
		Services: []InvoiceLine{
			{Name: "Sauna", Price: decimal.NewFromInt(10)},
		},
	}
	q, err := Price(NewStay(data.CheckIn, data.CheckOut), data.PricePerNight, []decimal.Decimal{decimal.NewFromInt(10)})
	require.NoError(t, err)

	want := "Reservation for John Doe:\n\n" +
		"Check-in: 2021-01-01\n" +
		"Check-out: 2021-01-03\n" +
		"\nCabin: Test Cabin\n" +
		"Price per night: 100.00\n" +
		"Total price for 2 nights: 200.00\n" +
		"\nServices:\n" +
		"Sauna: 10.00\n" +
		"Total price for services: 10.00\n" +
		"\nTotal price: 210.00" +
		"\n\nThank you for your visiting!"

	assert.Equal(t, want, RenderInvoice(data, q))
}

func TestRenderInvoice_OmitsServicesSection(t *testing.T) {
	data := InvoiceData{
		CustomerName:  "Jane Doe",
		CheckIn:       date(t, "2021-01-01"),
		CheckOut:      date(t, "2021-01-02"),
		CabinName:     "Lakeside",
		PricePerNight: decimal.RequireFromString("75.5"),
	}
	q, err := Price(NewStay(data.CheckIn, data.CheckOut), data.PricePerNight, nil)
	require.NoError(t, err)

	out := RenderInvoice(data, q)

	assert.NotContains(t, out, "Services:")
	assert.NotContains(t, out, "Total price for services")
	assert.Contains(t, out, "Total price for 1 nights: 75.50\n")
	assert.Contains(t, out, "\nTotal price: 75.50\n\nThank you for your visiting!")
	assert.Equal(t, out, RenderInvoice(data, q))
}
