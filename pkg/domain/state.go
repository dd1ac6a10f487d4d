package domain

// NavState enumerates where a user is in the catalog flow.
type NavState string

const (
	StateIdle                  NavState = "idle"
	StateBrowsingCategories    NavState = "browsing_categories"
	StateViewingProducts       NavState = "viewing_products"
	StateViewingProductDetails NavState = "viewing_product_details"
	StateAddingToCart          NavState = "adding_to_cart"
	StateAfterAddToCart        NavState = "after_add_to_cart"
)

// NavContext is the payload attached to a navigation state.
// Each variant carries exactly the fields its state needs, so replacing
// the context is the only way to change state.
type NavContext interface {
	State() NavState
}

// Idle is the resting state. No payload.
type Idle struct{}

// BrowsingCategories is entered after the category list was shown.
type BrowsingCategories struct{}

// ViewingProducts is entered after the product list of a category was shown.
type ViewingProducts struct {
	Category Category
}

// ViewingProductDetails is entered after a product detail screen was shown.
type ViewingProductDetails struct {
	Category Category
	Product  Product
}

// AddStep marks the sub-step of AddingToCart.
type AddStep string

const (
	AddStepSize    AddStep = "size"
	AddStepVariant AddStep = "variant"
)

// AddingToCart collects size and variant before committing a line.
// Size is set once Step is AddStepVariant.
type AddingToCart struct {
	Category Category
	Product  Product
	Step     AddStep
	Size     string
}

// AfterAddToCart is entered after a line was committed.
type AfterAddToCart struct{}

func (Idle) State() NavState                  { return StateIdle }
func (BrowsingCategories) State() NavState    { return StateBrowsingCategories }
func (ViewingProducts) State() NavState       { return StateViewingProducts }
func (ViewingProductDetails) State() NavState { return StateViewingProductDetails }
func (AddingToCart) State() NavState          { return StateAddingToCart }
func (AfterAddToCart) State() NavState        { return StateAfterAddToCart }

// Session is the per-user navigation record.
type Session struct {
	Context NavContext
}

// NewSession returns a session in the idle state.
func NewSession() Session {
	return Session{Context: Idle{}}
}

// State returns the navigation state, defaulting to idle.
func (s Session) State() NavState {
	if s.Context == nil {
		return StateIdle
	}
	return s.Context.State()
}
