package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/storechat/pkg/domain"
	"github.com/aretw0/storechat/pkg/ports"
)

// Profile describes the store to the model.
type Profile struct {
	Name    string
	Contact string
	Address string
	Hours   string
	About   string
}

// BuildSystemPrompt renders the store profile, categories and every product
// (unavailable ones flagged) into the system message.
func BuildSystemPrompt(ctx context.Context, p Profile, catalog ports.Catalog) (string, error) {
	categories, err := catalog.Categories(ctx)
	if err != nil {
		return "", err
	}
	products, err := catalog.AllProducts(ctx)
	if err != nil {
		return "", err
	}

	names := make(map[string]string, len(categories))
	var b strings.Builder
	fmt.Fprintf(&b, "You are the virtual assistant of %s. Be friendly, warm and brief.\n\n", p.Name)

	b.WriteString("ABOUT THE STORE:\n")
	fmt.Fprintf(&b, "- Name: %s\n", p.Name)
	if p.Address != "" {
		fmt.Fprintf(&b, "- Address: %s\n", p.Address)
	}
	if p.Hours != "" {
		fmt.Fprintf(&b, "- Hours: %s\n", p.Hours)
	}
	if p.Contact != "" {
		fmt.Fprintf(&b, "- Human attendant: %s\n", p.Contact)
	}
	if p.About != "" {
		fmt.Fprintf(&b, "- %s\n", p.About)
	}
	b.WriteString("- Payments: instant transfer (5% off), credit card, debit card and cash\n\n")

	b.WriteString("CATEGORIES:\n")
	for _, c := range categories {
		names[c.ID] = c.Name
		if c.Description != "" {
			fmt.Fprintf(&b, "- %s: %s\n", c.Name, c.Description)
		} else {
			fmt.Fprintf(&b, "- %s\n", c.Name)
		}
	}

	b.WriteString("\nPRODUCTS:\n")
	if len(products) == 0 {
		b.WriteString("The menu is being updated.\n")
	}
	for _, prod := range products {
		fmt.Fprintf(&b, "- %s (%s): $%.2f", prod.Name, names[prod.CategoryID], prod.Price)
		if prod.Description != "" {
			fmt.Fprintf(&b, " | %s", prod.Description)
		}
		if prod.Sizes.Present() {
			fmt.Fprintf(&b, " | Sizes: %s", prod.Sizes.Join(", "))
		}
		if prod.Variants.Present() {
			fmt.Fprintf(&b, " | Flavors: %s", prod.Variants.Join(", "))
		}
		if !prod.InStock {
			b.WriteString(" | UNAVAILABLE")
		}
		b.WriteString("\n")
	}

	b.WriteString("\nRULES:\n")
	b.WriteString("1. Never invent prices; use only the menu above.\n")
	b.WriteString("2. Mention the instant transfer discount when talking about payment.\n")
	b.WriteString("3. For custom orders ask for quantity, product, date and time.\n")
	if p.Contact != "" {
		fmt.Fprintf(&b, "4. When unsure, refer the customer to %s.\n", p.Contact)
	}
	b.WriteString("\nCOMMANDS THE CUSTOMER CAN USE:\n")
	b.WriteString("- \"menu\" shows the main menu\n")
	b.WriteString("- \"catalog\" opens the catalog from the main menu\n")
	b.WriteString("- \"back\" goes up one level while browsing\n")
	b.WriteString("- \"cart\" shows the cart\n")
	b.WriteString("- \"checkout\" places the order\n")

	return b.String(), nil
}

// WithCartContext appends the cart summary to the user's text when the cart
// has items.
func WithCartContext(text string, cart *domain.CartContext) string {
	if cart == nil || cart.ItemCount == 0 {
		return text
	}
	return fmt.Sprintf("%s\n\n[Context: the customer has %d item(s) in the cart, subtotal $%.2f]",
		text, cart.ItemCount, cart.Subtotal)
}
