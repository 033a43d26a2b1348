package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceLine is one add-on service as printed on the invoice.
type InvoiceLine struct {
	Name  string
	Price decimal.Decimal
}

// InvoiceData is the reservation snapshot the invoice is rendered from.
type InvoiceData struct {
	CustomerName  string
	CheckIn       time.Time
	CheckOut      time.Time
	CabinName     string
	PricePerNight decimal.Decimal
	Services      []InvoiceLine
}

// RenderInvoice formats the invoice text. It performs no validation; the
// quote must come from Price over the same data.
func RenderInvoice(data InvoiceData, quote Quote) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Reservation for %s:\n\n", data.CustomerName)
	fmt.Fprintf(&b, "Check-in: %s\n", Day(data.CheckIn).Format(DateLayout))
	fmt.Fprintf(&b, "Check-out: %s\n", Day(data.CheckOut).Format(DateLayout))

	fmt.Fprintf(&b, "\nCabin: %s\n", data.CabinName)
	fmt.Fprintf(&b, "Price per night: %s\n", money(data.PricePerNight))
	fmt.Fprintf(&b, "Total price for %d nights: %s\n", quote.Nights, money(quote.CabinSubtotal))

	if len(data.Services) > 0 {
		b.WriteString("\nServices:\n")
		for _, s := range data.Services {
			fmt.Fprintf(&b, "%s: %s\n", s.Name, money(s.Price))
		}
		fmt.Fprintf(&b, "Total price for services: %s\n", money(quote.ServicesSubtotal))
	}

	fmt.Fprintf(&b, "\nTotal price: %s", money(quote.Total))
	b.WriteString("\n\nThank you for your visiting!")

	return b.String()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
