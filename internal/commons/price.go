package commons

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const Currency = "RWF"

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders whole francs with thousands separators, e.g. "RWF 1,234".
func FormatPrice(amount float64) string {
	return pricePrinter.Sprintf("%s %d", Currency, int64(math.Round(amount)))
}
