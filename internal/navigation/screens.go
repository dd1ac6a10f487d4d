package navigation

import (
	"fmt"
	"strings"

	"github.com/aretw0/storechat/internal/cart"
	"github.com/aretw0/storechat/internal/config"
	"github.com/aretw0/storechat/pkg/domain"
)

// Row ids of the fixed menus.
const (
	RowCatalog      = "menu_catalog"
	RowPromotions   = "menu_promo"
	RowCart         = "menu_cart"
	RowCheckout     = "menu_checkout"
	RowCustomOrders = "menu_order"
	RowAttendant    = "menu_attendant"
	RowAbout        = "menu_about"

	RowAddToCart      = "prod_action_add"
	RowOtherProducts  = "prod_action_other"
	RowAllCategories  = "prod_action_categories"
	RowContinue       = "after_continue"
	RowViewCart       = "after_cart"
	RowAfterCheckout  = "after_checkout"
	categoryRowPrefix = "cat_"
	productRowPrefix  = "prod_"
	sizeRowPrefix     = "size_"
	variantRowPrefix  = "variant_"
)

const backFooter = "Or type *menu* to go back"

func mainMenu(store config.Store) domain.ChoiceList {
	footer := store.Footer
	if store.Contact != "" {
		footer = store.Name + " | " + store.Contact
	}
	return domain.ChoiceList{
		Prompt:     fmt.Sprintf("*%s*\n\n👋 *Hello, welcome!*\n\nWhat would you like today?", store.Name),
		ButtonText: "View menu",
		Sections: []domain.Section{
			{Title: "CATALOG", Rows: []domain.Row{
				{ID: RowCatalog, Label: "View catalog", Description: "All our categories"},
				{ID: RowPromotions, Label: "Promotions 🔥", Description: "Today's offers"},
				{ID: RowCart, Label: "My cart 🛒", Description: "Selected items"},
			}},
			{Title: "ORDERS", Rows: []domain.Row{
				{ID: RowCheckout, Label: "Place order", Description: "Finish my purchase"},
				{ID: RowCustomOrders, Label: "Custom orders 📦", Description: "Parties and events"},
			}},
			{Title: "SUPPORT", Rows: []domain.Row{
				{ID: RowAttendant, Label: "Talk to an attendant", Description: "Reach our team"},
				{ID: RowAbout, Label: "About us", Description: "Get to know " + store.Name},
			}},
		},
		Footer: footer,
	}
}

func categoryList(categories []domain.Category) domain.ChoiceList {
	rows := make([]domain.Row, 0, len(categories))
	for _, c := range categories {
		label := c.Name
		if c.Emoji != "" {
			label = c.Emoji + " " + c.Name
		}
		rows = append(rows, domain.Row{ID: categoryRowPrefix + c.ID, Label: label, Description: c.Description})
	}
	return domain.ChoiceList{
		Prompt:     "🛍️ *OUR CATALOG*\n\nChoose a category:",
		ButtonText: "View catalog",
		Sections:   []domain.Section{{Title: "CATEGORIES", Rows: rows}},
		Footer:     backFooter,
	}
}

func productList(category domain.Category, products []domain.Product) domain.ChoiceList {
	rows := make([]domain.Row, 0, len(products))
	for _, p := range products {
		desc := cart.Money(p.Price)
		if p.Sizes.Present() {
			desc += " | " + p.Sizes.Join(", ")
		}
		rows = append(rows, domain.Row{ID: productRowPrefix + p.ID, Label: p.Name, Description: desc})
	}
	name := strings.ToUpper(category.Name)
	return domain.ChoiceList{
		Prompt:     fmt.Sprintf("*%s*\n\nChoose a product:", name),
		ButtonText: "View products",
		Sections:   []domain.Section{{Title: name, Rows: rows}},
		Footer:     backFooter,
	}
}

func productDetail(category domain.Category, p domain.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*PRODUCT DETAILS*\n\n✨ *%s*\n\n", p.Name)
	fmt.Fprintf(&b, "💰 *Price:* %s\n", cart.Money(p.Price))
	if p.Sizes.Present() {
		fmt.Fprintf(&b, "📦 *Sizes:* %s\n", p.Sizes.Join(", "))
	}
	if p.Variants.Present() {
		fmt.Fprintf(&b, "🎨 *Options:* %s\n", p.Variants.Join(", "))
	}
	fmt.Fprintf(&b, "📂 *Category:* %s\n", category.Name)
	if p.Description != "" {
		fmt.Fprintf(&b, "\n📝 %s\n", p.Description)
	}
	b.WriteString("\nWhat would you like to do?")
	return b.String()
}

func imageCaption(p domain.Product) string {
	return fmt.Sprintf("📷 %s — %s", p.Name, cart.Money(p.Price))
}

func productActions(category domain.Category) domain.ChoiceList {
	return domain.ChoiceList{
		ButtonText: "Choose",
		Sections: []domain.Section{{Title: "Actions", Rows: []domain.Row{
			{ID: RowAddToCart, Label: "🛒 Add to cart", Description: "Choose size and options"},
			{ID: RowOtherProducts, Label: "🍽️ Other products", Description: "Back to " + category.Name},
			{ID: RowAllCategories, Label: "📋 All categories", Description: "See every category"},
		}}},
		Footer: backFooter,
	}
}

func optionList(prefix, title, prompt string, set domain.OptionSet) domain.ChoiceList {
	values := set.Values()
	rows := make([]domain.Row, 0, len(values))
	for i, v := range values {
		rows = append(rows, domain.Row{ID: fmt.Sprintf("%s%d", prefix, i), Label: v})
	}
	return domain.ChoiceList{
		Prompt:     prompt,
		ButtonText: "Choose",
		Sections:   []domain.Section{{Title: title, Rows: rows}},
		Footer:     "Or type *cancel* to go back",
	}
}

func sizeList(p domain.Product) domain.ChoiceList {
	return optionList(sizeRowPrefix, "SIZES",
		fmt.Sprintf("✨ *%s*\n\n💰 %s\n\nWhich size?", p.Name, cart.Money(p.Price)), p.Sizes)
}

func variantList(p domain.Product, size string) domain.ChoiceList {
	prompt := fmt.Sprintf("✨ *%s*\n", p.Name)
	if size != cart.SizeUnit {
		prompt += fmt.Sprintf("📦 Size: %s\n", size)
	}
	return optionList(variantRowPrefix, "OPTIONS", prompt+"\nChoose an option:", p.Variants)
}

func afterAddText(line domain.LineItem, lines cart.Lines) string {
	card := cart.ComputeTotals(lines, false)
	instant := cart.ComputeTotals(lines, true)

	var b strings.Builder
	fmt.Fprintf(&b, "💚 *ITEM ADDED!*\n\n✨ *%s*\n", line.Name)
	if line.Size != cart.SizeUnit {
		fmt.Fprintf(&b, "📦 %s\n", line.Size)
	}
	if line.Variant != cart.VariantStandard {
		fmt.Fprintf(&b, "🎨 %s\n", line.Variant)
	}
	fmt.Fprintf(&b, "💰 %s\n\n────────────────────\n\n🛒 *YOUR CART:*\n\n", cart.Money(line.UnitPrice))
	b.WriteString(cart.FormatLines(lines))
	fmt.Fprintf(&b, "\n💳 Card total: %s\n💚 Instant transfer total: %s", cart.Money(card.Total), cart.Money(instant.Total))
	return b.String()
}

func afterAddList() domain.ChoiceList {
	return domain.ChoiceList{
		Prompt:     "What would you like to do?",
		ButtonText: "Choose",
		Sections: []domain.Section{{Title: "Next steps", Rows: []domain.Row{
			{ID: RowContinue, Label: "🍽️ Keep shopping", Description: "See more products"},
			{ID: RowViewCart, Label: "🛒 View cart", Description: "Review your order"},
			{ID: RowAfterCheckout, Label: "✅ Checkout", Description: "Confirm and pay"},
		}}},
	}
}

func promotionsText(store config.Store) string {
	var b strings.Builder
	b.WriteString("🔥 *TODAY'S PROMOTIONS*\n\n")
	fmt.Fprintf(&b, "💚 *INSTANT TRANSFER DISCOUNT*\n%d%% off every product!\n", int(domain.DiscountRate*100))
	for _, p := range store.Promotions {
		fmt.Fprintf(&b, "\n🔥 %s\n", p)
	}
	b.WriteString("\n────────────────────\nType *catalog* to see the products!")
	return b.String()
}

func customOrdersText(store config.Store) string {
	var b strings.Builder
	b.WriteString("📦 *CUSTOM ORDERS*\n\n")
	if store.CustomOrders != "" {
		b.WriteString(store.CustomOrders)
		b.WriteString("\n\n")
	} else {
		b.WriteString("We take orders for parties, events and companies.\n\n")
	}
	if store.Contact != "" {
		fmt.Fprintf(&b, "📋 *To order:* talk to us at %s", store.Contact)
	}
	return strings.TrimSpace(b.String())
}

func attendantText(store config.Store) string {
	var b strings.Builder
	b.WriteString("🧡 *TALK TO AN ATTENDANT*\n\n")
	if store.Contact != "" {
		fmt.Fprintf(&b, "📱 %s\n", store.Contact)
	}
	if store.Address != "" {
		fmt.Fprintf(&b, "📍 %s\n", store.Address)
	}
	if store.Hours != "" {
		fmt.Fprintf(&b, "\n⏰ *Opening hours:*\n%s\n", store.Hours)
	}
	b.WriteString("\nWe are here to help!")
	return b.String()
}

func aboutText(store config.Store) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🧡 *%s*\n\n", strings.ToUpper(store.Name))
	if store.About != "" {
		b.WriteString(store.About)
		b.WriteString("\n\n")
	}
	if store.Address != "" {
		fmt.Fprintf(&b, "📍 %s\n\n", store.Address)
	}
	fmt.Fprintf(&b, "💳 *Payments:*\n💚 Instant transfer (%d%% off)\n💳 Credit or debit card\n💵 Cash", int(domain.DiscountRate*100))
	return b.String()
}

const helpText = "📖 *COMMANDS*\n\n" +
	"• *menu* — main menu\n" +
	"• *catalog* — browse products from the main menu\n" +
	"• *back* — go up one level (*catalog* and *products* do too while browsing)\n" +
	"• *cart* — see your cart\n" +
	"• *checkout* — place your order\n" +
	"• *clear* — empty your cart\n" +
	"• *remove <n>* — remove item n\n" +
	"• *help* — show this message\n\n" +
	"💡 You can also just ask me questions!"
