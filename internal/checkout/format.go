package checkout

import (
	"fmt"
	"strings"

	"github.com/aretw0/storechat/internal/cart"
	"github.com/aretw0/storechat/internal/config"
	"github.com/aretw0/storechat/pkg/domain"
)

const emptyCartText = "🛒 Your cart is empty!\n\n" +
	"💡 Type *products* to see our catalog.\n" +
	"Or type *menu* to see all options."

const cancelledText = "❌ Order cancelled. Your cart was kept.\n\nType *menu* to return to the start."

const paymentMenuText = "💳 *PAYMENT METHOD:*\n\n" +
	"1️⃣ Instant transfer (PIX) (5% off) 💚\n" +
	"2️⃣ Credit card\n" +
	"3️⃣ Debit card\n" +
	"4️⃣ Cash\n\n" +
	"Type the option number:"

func startText(lines cart.Lines) string {
	card := cart.ComputeTotals(lines, false)
	instant := cart.ComputeTotals(lines, true)

	var b strings.Builder
	b.WriteString("🛒 *YOUR ORDER:*\n\n")
	b.WriteString(cart.FormatLines(lines))
	fmt.Fprintf(&b, "\n💰 Subtotal: %s", cart.Money(card.Subtotal))
	fmt.Fprintf(&b, "\n💳 Card: %s", cart.Money(card.Total))
	fmt.Fprintf(&b, "\n💚 Instant transfer (5%% off): %s", cart.Money(instant.Total))
	b.WriteString("\n\n────────────────────\n\n")
	b.WriteString("📝 *DELIVERY DETAILS*\n\nPlease tell me your *full name*:")
	return b.String()
}

func summaryText(s Session, lines cart.Lines) string {
	totals := cart.ComputeTotals(lines, s.DiscountEligible)

	var b strings.Builder
	b.WriteString("📋 *ORDER SUMMARY*\n\n")
	writeCustomer(&b, s.Data, s.DiscountEligible)
	b.WriteString("\n🛒 *ITEMS:*\n")
	b.WriteString(cart.FormatLines(lines))
	fmt.Fprintf(&b, "\n💰 *TOTAL: %s*", cart.Money(totals.Total))
	if s.DiscountEligible {
		b.WriteString(" _(5% instant transfer discount)_")
	}
	b.WriteString("\n\n✅ Confirm order?\n\n1️⃣ *Yes*, confirm\n2️⃣ *No*, cancel")
	return b.String()
}

func confirmationText(store config.Store, order domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ *ORDER CONFIRMED!*\n\nThank you, *%s*!\n\n", order.Customer.Name)
	b.WriteString("Your order was received and we will contact you shortly.\n")
	fmt.Fprintf(&b, "Order: %s\n", ShortID(order.ID))
	if store.Contact != "" {
		fmt.Fprintf(&b, "\n📱 Questions? Reach us at %s\n", store.Contact)
	}
	fmt.Fprintf(&b, "\n%s", store.Name)
	return b.String()
}

// FormatNotice renders the attendant notification of an order.
func FormatNotice(order domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔔 *NEW ORDER* %s\n\n", ShortID(order.ID))
	writeCustomer(&b, order.Customer, order.DiscountEligible)
	b.WriteString("\n🛒 *ITEMS:*\n")
	b.WriteString(cart.FormatLines(order.Lines))
	fmt.Fprintf(&b, "\n💰 *TOTAL: %s*", cart.Money(order.Totals.Total))
	return b.String()
}

// ShortID is the first block of a uuid, enough for a human to quote.
func ShortID(id string) string {
	if head, _, ok := strings.Cut(id, "-"); ok {
		return head
	}
	return id
}

func writeCustomer(b *strings.Builder, d domain.CustomerData, discount bool) {
	fmt.Fprintf(b, "👤 *Name:* %s\n", d.Name)
	fmt.Fprintf(b, "📱 *Phone:* %s\n", d.Phone)
	fmt.Fprintf(b, "📍 *Address:* %s\n", d.Address)
	fmt.Fprintf(b, "💳 *Payment:* %s", d.Payment)
	if discount {
		b.WriteString(" (5% off)")
	}
	b.WriteString("\n")
}
