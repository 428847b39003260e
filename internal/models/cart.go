package models

import "time"

// CartProduct is the slice of product data a cart line carries. Identity for
// merge decisions is the product id, never the cart-line id.
type CartProduct struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl"`
}

type CartItem struct {
	ID        string      `json:"id"`
	UserID    string      `json:"-"`
	Product   CartProduct `json:"product"`
	Quantity  int         `json:"quantity"`
	Selected  bool        `json:"selected"`
	CreatedAt time.Time   `json:"-"`
	UpdatedAt time.Time   `json:"-"`
}
