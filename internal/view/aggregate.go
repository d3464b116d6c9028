package view

import (
	"fmt"
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/mesh-intelligence/backdesk/pkg/types"
)

// Sum adds the numeric values of field across items. Non-numeric and missing
// values count as 0.
func Sum[E types.Entity](items []E, field string) float64 {
	var total float64
	for _, e := range items {
		v, _ := e.Field(field)
		if n, ok := types.NumberValue(v); ok {
			total += n
		}
	}
	return total
}

// CountBy counts items per distinct value of field. Missing values count
// under "".
func CountBy[E types.Entity](items []E, field string) map[string]int {
	counts := make(map[string]int)
	for _, e := range items {
		v, _ := e.Field(field)
		counts[types.StringValue(v)]++
	}
	return counts
}

// FormatMoney renders amount in the ISO 4217 currency code with two decimals
// and the grouping of lang. An unparsable lang falls back to English.
func FormatMoney(amount float64, code, lang string) (string, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("currency %q: %w", code, err)
	}
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = math.Abs(amount)
	}
	symbol := p.Sprint(currency.Symbol(unit))
	return sign + symbol + p.Sprint(number.Decimal(amount, number.Scale(2))), nil
}
