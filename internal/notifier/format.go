package notifier

import (
	"strings"

	"github.com/shopspring/decimal"
)

// formatMoney formats a decimal with two decimal places and thousands
// separators, the way values appear in the mails (13406.5 -> "13,406.50")
func formatMoney(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	if negative {
		fixed = fixed[1:]
	}

	parts := strings.SplitN(fixed, ".", 2)
	intPart := parts[0]

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := b.String() + "." + parts[1]
	if negative {
		out = "-" + out
	}
	return out
}
