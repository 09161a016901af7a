package domain

import "strings"

// OrderRequest is the payload a customer submits at checkout. DeliveryCharge
// and TotalPrice are pointers so that an absent field can be told apart from a
// legitimate zero.
type OrderRequest struct {
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	Address        string     `json:"address"`
	CartItems      []CartItem `json:"cartItems"`
	DeliveryCharge *float64   `json:"deliveryCharge"`
	TotalPrice     *float64   `json:"totalPrice"`
}

// Validate checks the request shape without touching any datastore. The first
// failing field is reported; repeated calls on the same payload always return
// the same result.
func (r *OrderRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return &InvalidInputError{Field: "name"}
	}
	if strings.TrimSpace(r.Phone) == "" {
		return &InvalidInputError{Field: "phone"}
	}
	if strings.TrimSpace(r.Address) == "" {
		return &InvalidInputError{Field: "address"}
	}
	if len(r.CartItems) == 0 {
		return &InvalidInputError{Field: "cartItems"}
	}
	for _, item := range r.CartItems {
		if item.CoverID.IsZero() || item.Quantity < 1 {
			return &InvalidInputError{Field: "cartItems"}
		}
	}
	if r.DeliveryCharge == nil {
		return &InvalidInputError{Field: "deliveryCharge"}
	}
	if r.TotalPrice == nil || *r.TotalPrice < 0 {
		return &InvalidInputError{Field: "totalPrice"}
	}
	return nil
}
