package cart

import (
	"fmt"
	"strings"

	"github.com/aretw0/storechat/pkg/domain"
)

// Sentinel option labels stored when a product has no sizes or no variants.
const (
	SizeUnit        = "Unit"
	VariantStandard = "Standard"
)

// FormatLines renders numbered lines, omitting sentinel option labels.
func FormatLines(lines Lines) string {
	var b strings.Builder
	for i, l := range lines {
		fmt.Fprintf(&b, "%d. *%s*", i+1, l.Name)
		if opts := optionSuffix(l); opts != "" {
			b.WriteString(" (" + opts + ")")
		}
		fmt.Fprintf(&b, "\n   %d x %s = %s\n", l.Quantity, Money(l.UnitPrice), Money(l.LineTotal()))
	}
	return b.String()
}

func optionSuffix(l domain.LineItem) string {
	var parts []string
	if l.Size != "" && l.Size != SizeUnit {
		parts = append(parts, l.Size)
	}
	if l.Variant != "" && l.Variant != VariantStandard {
		parts = append(parts, l.Variant)
	}
	return strings.Join(parts, ", ")
}

// FormatView renders the full cart screen with card and instant-transfer totals.
func FormatView(lines Lines) string {
	if len(lines) == 0 {
		return "🛒 Your cart is empty.\n\nType *catalog* to browse our products."
	}
	card := ComputeTotals(lines, false)
	instant := ComputeTotals(lines, true)

	var b strings.Builder
	b.WriteString("🛒 *Your cart*\n\n")
	b.WriteString(FormatLines(lines))
	fmt.Fprintf(&b, "\nSubtotal: %s\n", Money(card.Subtotal))
	fmt.Fprintf(&b, "💳 Card: %s\n", Money(card.Total))
	fmt.Fprintf(&b, "⚡ Instant transfer (%d%% off): %s\n", int(domain.DiscountRate*100), Money(instant.Total))
	b.WriteString("\nType *checkout* to place your order, *remove <n>* to drop an item or *clear* to empty the cart.")
	return b.String()
}
