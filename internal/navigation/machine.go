// Package navigation is the catalog browsing state machine: main menu,
// categories, products, product details and the add-to-cart steps.
//
// The Machine decides; it never touches the transport. Each Handle call
// returns the actions to send and whether the message was consumed.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/storechat/internal/cart"
	"github.com/aretw0/storechat/internal/config"
	"github.com/aretw0/storechat/internal/logging"
	"github.com/aretw0/storechat/internal/present"
	"github.com/aretw0/storechat/pkg/domain"
	"github.com/aretw0/storechat/pkg/ports"
	"github.com/aretw0/storechat/pkg/session"
)

// Outcome is a follow-up the dispatcher must run after the actions.
type Outcome int

const (
	OutcomeNone Outcome = iota
	// OutcomeStartCheckout asks the dispatcher to open the checkout flow.
	OutcomeStartCheckout
)

// Result of one navigation turn.
type Result struct {
	Handled bool
	Outcome Outcome
	Actions []domain.Action
}

// Machine is the navigation state machine.
type Machine struct {
	sessions *session.Manager
	catalog  ports.Catalog
	cart     *cart.Service
	keywords config.Keywords
	store    config.Store
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// Option configures the Machine.
type Option func(*Machine)

// WithLogger configures a logger for the Machine.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) { m.logger = logger }
}

// WithLifecycleHooks registers transition callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) { m.hooks = hooks }
}

// WithKeywords overrides the home/back vocabulary.
func WithKeywords(k config.Keywords) Option {
	return func(m *Machine) { m.keywords = k }
}

// WithStore sets the shop profile rendered in the informational screens.
func WithStore(s config.Store) Option {
	return func(m *Machine) { m.store = s }
}

// New creates a navigation Machine.
func New(sessions *session.Manager, catalog ports.Catalog, carts *cart.Service, opts ...Option) *Machine {
	m := &Machine{
		sessions: sessions,
		catalog:  catalog,
		cart:     carts,
		keywords: config.DefaultKeywords(),
		store:    config.Default().Store,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// turn carries the per-message working set.
type turn struct {
	msg     domain.Message
	user    string
	lower   string
	session domain.Session
	actions []domain.Action
}

func (t *turn) text(body string) {
	t.actions = append(t.actions, domain.Text(t.user, body))
}

func (t *turn) present(list domain.ChoiceList) {
	t.actions = append(t.actions, domain.Present(t.user, list))
}

func (t *turn) image(url, caption string) {
	t.actions = append(t.actions, domain.SendImage(t.user, url, caption))
}

func (t *turn) handled() Result {
	return Result{Handled: true, Actions: t.actions}
}

// Handle interprets msg against the user's navigation state.
// Call it inside session.Manager.WithLock.
func (m *Machine) Handle(ctx context.Context, msg domain.Message) (Result, error) {
	s, err := m.sessions.Load(ctx, msg.From)
	if err != nil {
		return Result{}, err
	}
	t := &turn{msg: msg, user: msg.From, lower: msg.Normalized(), session: s}

	if !msg.IsSelection() && m.keywords.IsHome(t.lower) {
		return m.showMainMenu(ctx, t)
	}
	if msg.IsSelection() && strings.HasPrefix(msg.SelectionID, "menu_") {
		return m.mainMenuRow(ctx, t, msg.SelectionID)
	}
	if !msg.IsSelection() {
		if res, ok, err := m.globalCommand(ctx, t); ok || err != nil {
			return res, err
		}
	}

	state := s.State()
	if state != domain.StateIdle && !msg.IsSelection() && m.keywords.IsBack(t.lower) {
		return m.back(ctx, t)
	}

	switch c := s.Context.(type) {
	case domain.BrowsingCategories:
		if m.declines(t) {
			return Result{}, nil
		}
		return m.selectCategory(ctx, t)
	case domain.ViewingProducts:
		if m.declines(t) {
			return Result{}, nil
		}
		return m.selectProduct(ctx, t, c)
	case domain.ViewingProductDetails:
		if !isActionOrdinal(t.lower) && m.declines(t) {
			return Result{}, nil
		}
		return m.productAction(ctx, t, c)
	case domain.AddingToCart:
		if m.declines(t) {
			return Result{}, nil
		}
		return m.addStep(ctx, t, c)
	case domain.AfterAddToCart:
		return m.afterAdd(ctx, t)
	default:
		return m.idle(ctx, t)
	}
}

// declines reports free text that should go to the responder instead.
func (m *Machine) declines(t *turn) bool {
	return !t.msg.IsSelection() && QuestionLike(t.msg.Text())
}

func isActionOrdinal(s string) bool {
	return s == "1" || s == "2" || s == "3"
}

func (m *Machine) transition(ctx context.Context, t *turn, next domain.NavContext) error {
	if err := m.sessions.Transition(ctx, t.user, next); err != nil {
		return err
	}
	from := t.session.State()
	t.session.Context = next
	m.hooks.EmitTransition(ctx, t.user, from, next.State())
	return nil
}

func (m *Machine) idle(ctx context.Context, t *turn) (Result, error) {
	if t.msg.IsSelection() {
		// Stale tap from a screen that is no longer active.
		return m.showMainMenu(ctx, t)
	}
	switch t.lower {
	case "1", "catalog", "products":
		return m.mainMenuRow(ctx, t, RowCatalog)
	case "2", "promotions":
		return m.mainMenuRow(ctx, t, RowPromotions)
	case "3":
		return m.mainMenuRow(ctx, t, RowCart)
	case "4":
		return m.mainMenuRow(ctx, t, RowCheckout)
	case "5", "custom orders":
		return m.mainMenuRow(ctx, t, RowCustomOrders)
	case "6", "attendant":
		return m.mainMenuRow(ctx, t, RowAttendant)
	case "7", "about":
		return m.mainMenuRow(ctx, t, RowAbout)
	}
	return Result{}, nil
}

func (m *Machine) mainMenuRow(ctx context.Context, t *turn, rowID string) (Result, error) {
	switch rowID {
	case RowCatalog:
		return m.showCategories(ctx, t)
	case RowPromotions:
		t.text(promotionsText(m.store))
	case RowCart:
		if err := m.showCart(ctx, t); err != nil {
			return Result{}, err
		}
	case RowCheckout:
		if err := m.transition(ctx, t, domain.Idle{}); err != nil {
			return Result{}, err
		}
		res := t.handled()
		res.Outcome = OutcomeStartCheckout
		return res, nil
	case RowCustomOrders:
		t.text(customOrdersText(m.store))
	case RowAttendant:
		t.text(attendantText(m.store))
	case RowAbout:
		t.text(aboutText(m.store))
	default:
		return m.showMainMenu(ctx, t)
	}
	return t.handled(), nil
}

func (m *Machine) globalCommand(ctx context.Context, t *turn) (Result, bool, error) {
	switch {
	case t.lower == "help":
		t.text(helpText)
	case t.lower == "cart":
		if err := m.showCart(ctx, t); err != nil {
			return Result{}, true, err
		}
	case t.lower == "clear" || t.lower == "clear cart":
		if err := m.cart.Clear(ctx, t.user); err != nil {
			return Result{}, true, err
		}
		if err := m.transition(ctx, t, domain.Idle{}); err != nil {
			return Result{}, true, err
		}
		t.text("💚 Cart emptied!\n\nType *menu* to continue.")
	case strings.HasPrefix(t.lower, "remove "):
		n, ok := present.Ordinal(strings.TrimPrefix(t.lower, "remove "))
		removed := false
		if ok {
			var err error
			if removed, err = m.cart.Remove(ctx, t.user, n-1); err != nil {
				return Result{}, true, err
			}
		}
		if removed {
			t.text("💚 Item removed!\n\nType *cart* to see your cart.")
		} else {
			t.text("❌ Item not found. Type *cart* to see the item numbers.")
		}
	default:
		return Result{}, false, nil
	}
	return t.handled(), true, nil
}

// back moves exactly one level up.
func (m *Machine) back(ctx context.Context, t *turn) (Result, error) {
	switch c := t.session.Context.(type) {
	case domain.ViewingProducts:
		return m.showCategories(ctx, t)
	case domain.ViewingProductDetails:
		return m.showProducts(ctx, t, c.Category)
	case domain.AddingToCart:
		return m.showDetails(ctx, t, c.Category, c.Product)
	default:
		// browsing_categories and after_add_to_cart go back to the main menu.
		return m.showMainMenu(ctx, t)
	}
}

func (m *Machine) showMainMenu(ctx context.Context, t *turn) (Result, error) {
	if err := m.transition(ctx, t, domain.Idle{}); err != nil {
		return Result{}, err
	}
	t.present(mainMenu(m.store))
	return t.handled(), nil
}

func (m *Machine) showCart(ctx context.Context, t *turn) error {
	lines, err := m.cart.Items(ctx, t.user)
	if err != nil {
		return err
	}
	t.text(cart.FormatView(lines))
	return nil
}

func (m *Machine) showCategories(ctx context.Context, t *turn) (Result, error) {
	categories, err := m.catalog.Categories(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list categories: %w", err)
	}
	if len(categories) == 0 {
		if err := m.transition(ctx, t, domain.Idle{}); err != nil {
			return Result{}, err
		}
		t.text("Our catalog is being updated. Please try again soon.\n\nType *menu* to go back.")
		return t.handled(), nil
	}
	if err := m.transition(ctx, t, domain.BrowsingCategories{}); err != nil {
		return Result{}, err
	}
	t.present(categoryList(categories))
	return t.handled(), nil
}

// showProducts lists the category, falling back to the category list when
// it has nothing in stock.
func (m *Machine) showProducts(ctx context.Context, t *turn, category domain.Category) (Result, error) {
	products, err := m.catalog.ProductsByCategory(ctx, category.ID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list products: %w", err)
	}
	if len(products) == 0 {
		t.text("No products available in this category right now.")
		return m.showCategories(ctx, t)
	}
	if err := m.transition(ctx, t, domain.ViewingProducts{Category: category}); err != nil {
		return Result{}, err
	}
	t.present(productList(category, products))
	return t.handled(), nil
}

func (m *Machine) showDetails(ctx context.Context, t *turn, category domain.Category, p domain.Product) (Result, error) {
	if err := m.transition(ctx, t, domain.ViewingProductDetails{Category: category, Product: p}); err != nil {
		return Result{}, err
	}
	for _, url := range p.Images {
		t.image(url, imageCaption(p))
	}
	t.text(productDetail(category, p))
	t.present(productActions(category))
	return t.handled(), nil
}

func (m *Machine) selectCategory(ctx context.Context, t *turn) (Result, error) {
	categories, err := m.catalog.Categories(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list categories: %w", err)
	}
	row, ok := present.Resolve(categoryList(categories), t.msg)
	if !ok {
		t.text("❌ Invalid category. Type the number or *menu* to go back.")
		return t.handled(), nil
	}
	id := strings.TrimPrefix(row.ID, categoryRowPrefix)
	for _, c := range categories {
		if c.ID == id {
			return m.showProducts(ctx, t, c)
		}
	}
	return Result{}, fmt.Errorf("%w: %s", domain.ErrCategoryNotFound, id)
}

func (m *Machine) selectProduct(ctx context.Context, t *turn, c domain.ViewingProducts) (Result, error) {
	products, err := m.catalog.ProductsByCategory(ctx, c.Category.ID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list products: %w", err)
	}
	if len(products) == 0 {
		t.text("No products available in this category right now.")
		return m.showCategories(ctx, t)
	}
	row, ok := present.Resolve(productList(c.Category, products), t.msg)
	if !ok {
		t.text("❌ Invalid product. Type the number or *menu* to go back.")
		return t.handled(), nil
	}
	id := strings.TrimPrefix(row.ID, productRowPrefix)
	for _, p := range products {
		if p.ID == id {
			return m.showDetails(ctx, t, c.Category, p)
		}
	}
	return Result{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
}

func (m *Machine) productAction(ctx context.Context, t *turn, c domain.ViewingProductDetails) (Result, error) {
	row, ok := present.Resolve(productActions(c.Category), t.msg)
	if !ok {
		t.text("❌ Invalid option. Type 1, 2 or 3.")
		return t.handled(), nil
	}
	switch row.ID {
	case RowAddToCart:
		return m.startAdd(ctx, t, c.Category, c.Product)
	case RowOtherProducts:
		return m.showProducts(ctx, t, c.Category)
	default:
		return m.showCategories(ctx, t)
	}
}

// startAdd re-reads the product so the stock flag is current, then asks for
// the first missing option or commits right away.
func (m *Machine) startAdd(ctx context.Context, t *turn, category domain.Category, p domain.Product) (Result, error) {
	fresh, err := m.catalog.Product(ctx, p.ID)
	if err == nil && !fresh.InStock {
		err = domain.ErrOutOfStock
	}
	if err != nil {
		return m.lookupFailed(ctx, t, category, err)
	}
	p = fresh

	switch {
	case p.Sizes.Present():
		if err := m.transition(ctx, t, domain.AddingToCart{Category: category, Product: p, Step: domain.AddStepSize}); err != nil {
			return Result{}, err
		}
		t.present(sizeList(p))
		return t.handled(), nil
	case p.Variants.Present():
		return m.askVariant(ctx, t, category, p, cart.SizeUnit)
	default:
		return m.commit(ctx, t, category, p, cart.SizeUnit, cart.VariantStandard)
	}
}

func (m *Machine) askVariant(ctx context.Context, t *turn, category domain.Category, p domain.Product, size string) (Result, error) {
	next := domain.AddingToCart{Category: category, Product: p, Step: domain.AddStepVariant, Size: size}
	if err := m.transition(ctx, t, next); err != nil {
		return Result{}, err
	}
	t.present(variantList(p, size))
	return t.handled(), nil
}

func (m *Machine) addStep(ctx context.Context, t *turn, c domain.AddingToCart) (Result, error) {
	if c.Step == domain.AddStepVariant {
		row, ok := present.Resolve(variantList(c.Product, c.Size), t.msg)
		if !ok {
			t.text("❌ Invalid option. Choose a number from the list or *cancel* to go back.")
			return t.handled(), nil
		}
		return m.commit(ctx, t, c.Category, c.Product, c.Size, row.Label)
	}

	row, ok := present.Resolve(sizeList(c.Product), t.msg)
	if !ok {
		t.text("❌ Invalid size. Choose a number from the list or *cancel* to go back.")
		return t.handled(), nil
	}
	if c.Product.Variants.Present() {
		return m.askVariant(ctx, t, c.Category, c.Product, row.Label)
	}
	return m.commit(ctx, t, c.Category, c.Product, row.Label, cart.VariantStandard)
}

func (m *Machine) commit(ctx context.Context, t *turn, category domain.Category, p domain.Product, size, variant string) (Result, error) {
	line, err := m.cart.AddItem(ctx, t.user, p.ID, size, variant, 1)
	if err != nil {
		return m.lookupFailed(ctx, t, category, err)
	}
	lines, err := m.cart.Items(ctx, t.user)
	if err != nil {
		return Result{}, err
	}
	if err := m.transition(ctx, t, domain.AfterAddToCart{}); err != nil {
		return Result{}, err
	}
	m.logger.Debug("Item added", "user", t.user, "product", p.ID, "size", size, "variant", variant)
	t.text(afterAddText(line, lines))
	t.present(afterAddList())
	return t.handled(), nil
}

// lookupFailed reports an unavailable product and returns to its category.
func (m *Machine) lookupFailed(ctx context.Context, t *turn, category domain.Category, err error) (Result, error) {
	switch {
	case errors.Is(err, domain.ErrOutOfStock):
		t.text("😔 Sorry, this product is out of stock right now.")
	case errors.Is(err, domain.ErrProductNotFound):
		t.text("😔 Sorry, this product is no longer available.")
	default:
		return Result{}, err
	}
	return m.showProducts(ctx, t, category)
}

func (m *Machine) afterAdd(ctx context.Context, t *turn) (Result, error) {
	row, ok := present.Resolve(afterAddList(), t.msg)
	if !ok {
		t.text("❌ Invalid option. Type 1, 2 or 3.")
		return t.handled(), nil
	}
	switch row.ID {
	case RowContinue:
		return m.showCategories(ctx, t)
	case RowViewCart:
		if err := m.showCart(ctx, t); err != nil {
			return Result{}, err
		}
		if err := m.transition(ctx, t, domain.Idle{}); err != nil {
			return Result{}, err
		}
		return t.handled(), nil
	default:
		if err := m.transition(ctx, t, domain.Idle{}); err != nil {
			return Result{}, err
		}
		res := t.handled()
		res.Outcome = OutcomeStartCheckout
		return res, nil
	}
}
