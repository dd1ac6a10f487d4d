package domain

import "time"

// CustomerData is collected one field per checkout step.
type CustomerData struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Payment string `json:"payment,omitempty"`
}

// Order is the immutable result of a finalized checkout.
type Order struct {
	ID               string       `json:"id"`
	UserID           string       `json:"user_id"`
	Customer         CustomerData `json:"customer"`
	DiscountEligible bool         `json:"discount_eligible"`
	Lines            []LineItem   `json:"lines"`
	Totals           Totals       `json:"totals"`
	PlacedAt         time.Time    `json:"placed_at"`
}
