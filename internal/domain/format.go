package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var DefaultLocale = language.AmericanEnglish

type FormatError struct {
	Currency string
	Err      error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot format price in currency %q: %v", e.Currency, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func FormatPrice(price decimal.Decimal, currencyCode string) (string, error) {
	return FormatPriceIn(DefaultLocale, price, currencyCode)
}

// FormatPriceIn renders price with the narrow currency symbol and the
// currency's standard number of fraction digits, grouped for the given locale.
func FormatPriceIn(locale language.Tag, price decimal.Decimal, currencyCode string) (string, error) {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return "", &FormatError{Currency: currencyCode, Err: err}
	}

	scale, _ := currency.Standard.Rounding(unit)
	p := message.NewPrinter(locale)

	symbol := p.Sprint(currency.NarrowSymbol(unit))
	amount := p.Sprint(number.Decimal(
		price.Round(int32(scale)).InexactFloat64(),
		number.Scale(scale),
	))

	return symbol + amount, nil
}
