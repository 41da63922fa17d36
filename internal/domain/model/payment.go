package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"mbills-payments/internal/domain"
)

// MinimumAmountCents is the smallest payable amount (0.10 EUR).
const MinimumAmountCents int64 = 10

// MaxUnitPriceCents caps a single item price (10.000.000,00 EUR).
const MaxUnitPriceCents int64 = 1_000_000_000

// CurrencyEUR is the only currency the gateway settles.
const CurrencyEUR = "EUR"

// SupportedCurrency reports whether an upper-cased currency code is accepted.
func SupportedCurrency(code string) bool { return code == CurrencyEUR }

// Item is one line of an itemized payment.
type Item struct {
	Name           string
	UnitPriceCents int64
	Quantity       int64
}

// TotalCents returns unit price times quantity. Items with a negative or
// oversized price, a non-positive quantity, or a product that does not fit in
// int64 yield domain.ErrInvalidArgument.
func (i Item) TotalCents() (int64, error) {
	if i.Quantity <= 0 {
		return 0, fmt.Errorf("%w: item %q quantity %d", domain.ErrInvalidArgument, i.Name, i.Quantity)
	}
	if i.UnitPriceCents < 0 || i.UnitPriceCents > MaxUnitPriceCents {
		return 0, fmt.Errorf("%w: item %q unit price %d", domain.ErrInvalidArgument, i.Name, i.UnitPriceCents)
	}
	if i.UnitPriceCents > 0 && i.Quantity > math.MaxInt64/i.UnitPriceCents {
		return 0, fmt.Errorf("%w: item %q total overflows", domain.ErrInvalidArgument, i.Name)
	}
	return i.UnitPriceCents * i.Quantity, nil
}

// PaymentRequest describes a single sale. It lives only for the duration of one
// RequestPayment call.
type PaymentRequest struct {
	Purpose     string
	Currency    string
	AmountCents int64 // ignored when Items is non-nil

	// Items switches the request to itemized pricing. An empty, non-nil slice is
	// still itemized (and prices to zero).
	Items             []Item
	DisplayItemPrices bool

	WebhookURL       string
	AppName          string
	OrderID          string
	PaymentReference string
	ChannelID        string
}

// Itemized reports whether the amount and purpose are derived from Items.
func (r *PaymentRequest) Itemized() bool { return r.Items != nil }

// AddItem appends an item to an itemized request and is a no-op on a flat one.
// A zero quantity (an omitted JSON field) means 1; negative quantities are kept
// and rejected by Price.
func (r *PaymentRequest) AddItem(name string, unitPriceCents int64, quantity int64) *PaymentRequest {
	if !r.Itemized() {
		return r
	}
	if quantity == 0 {
		quantity = 1
	}
	r.Items = append(r.Items, Item{Name: name, UnitPriceCents: unitPriceCents, Quantity: quantity})
	return r
}

// NormalizedCurrency returns the upper-cased, trimmed currency code.
func (r *PaymentRequest) NormalizedCurrency() string {
	return strings.ToUpper(strings.TrimSpace(r.Currency))
}

// Price computes the payable amount and the purpose line shown in the wallet app.
// Invalid items and totals that overflow yield domain.ErrInvalidArgument.
func (r *PaymentRequest) Price() (int64, string, error) {
	if !r.Itemized() {
		return r.AmountCents, r.Purpose, nil
	}

	var amount int64
	names := make([]string, 0, len(r.Items))
	for _, it := range r.Items {
		total, err := it.TotalCents()
		if err != nil {
			return 0, "", err
		}
		if amount > math.MaxInt64-total {
			return 0, "", fmt.Errorf("%w: order total overflows", domain.ErrInvalidArgument)
		}
		amount += total
		line := strconv.FormatInt(it.Quantity, 10) + "x " + it.Name
		if r.DisplayItemPrices {
			line += " (" + FormatEuroCents(it.UnitPriceCents) + "€)"
		}
		names = append(names, line)
	}

	purpose := strings.Join(names, ", ")
	if r.Purpose != "" {
		purpose = r.Purpose + " -- " + purpose
	}
	return amount, purpose, nil
}

// FormatEuroCents renders cents as major units with a comma decimal separator and
// dot thousands separator, e.g. 123456 -> "1.234,56".
func FormatEuroCents(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := strconv.FormatInt(cents/100, 10)
	frac := cents % 100

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	b.WriteByte(',')
	if frac < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(frac, 10))
	return b.String()
}
