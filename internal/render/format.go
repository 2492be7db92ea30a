package render

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/keilerkonzept/sponsorwall/internal/content"
)

// Full amounts group thousands with a dot; short amounts use a decimal
// point and a k suffix.
var (
	fullPrinter  = message.NewPrinter(language.German)
	shortPrinter = message.NewPrinter(language.English)
)

// Euro formats a whole amount, e.g. 5000 as "€5.000".
func Euro(amount int) string {
	return "€" + fullPrinter.Sprint(number.Decimal(amount))
}

// EuroShort formats amounts of ten thousand and more in thousands, e.g.
// 12500 as "€12.5k". Smaller amounts fall back to Euro.
func EuroShort(amount int) string {
	if amount < 10000 {
		return Euro(amount)
	}
	k := float64(amount) / 1000
	return "€" + shortPrinter.Sprint(number.Decimal(k, number.MaxFractionDigits(1))) + "k"
}

// EuroAmount formats a bid amount with up to two decimals.
func EuroAmount(v float64) string {
	return "€" + fullPrinter.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// PriceLines lists the offer printed on an empty slot.
func PriceLines(p content.Pricing) []string {
	return []string{
		fmt.Sprintf("Day %s", EuroShort(p.Day)),
		fmt.Sprintf("Weekend %s", EuroShort(p.Weekend)),
		fmt.Sprintf("Week %s", EuroShort(p.Week)),
	}
}
