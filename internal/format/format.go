// Package format renders money amounts for a currency and locale.
package format

import (
	"fmt"
	"math"

	"github.com/rustyeddy/tradejournal/insight"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency returns a formatter that prints amounts as "USD 1,234.50", using
// the locale's digit grouping and the currency's standard scale.
func Currency(code, locale string) (insight.Formatter, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("currency %q: %w", code, err)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", locale, err)
	}

	scale, _ := currency.Standard.Rounding(unit)
	p := message.NewPrinter(tag)
	prefix := unit.String() + " "

	return func(v float64) string {
		sign := ""
		if v < 0 {
			sign = "-"
		}
		return sign + prefix + p.Sprint(number.Decimal(math.Abs(v), number.Scale(scale)))
	}, nil
}

// MustCurrency is Currency for codes known to be valid. It panics on error.
func MustCurrency(code, locale string) insight.Formatter {
	f, err := Currency(code, locale)
	if err != nil {
		panic(err)
	}
	return f
}
