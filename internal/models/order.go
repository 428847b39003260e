package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusRefunded  OrderStatus = "REFUNDED"
)

type OrderItem struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	ImageURL    string  `json:"imageUrl"`
}

type ShippingInfo struct {
	Receiver   string `json:"receiver"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Carrier    string `json:"carrier"`
	TrackingNo string `json:"trackingNo"`
}

type Order struct {
	ID           string       `json:"id"`
	OrderNo      string       `json:"orderNo"`
	UserID       string       `json:"userId"`
	Items        []OrderItem  `json:"items"`
	TotalAmount  float64      `json:"totalAmount"`
	Status       OrderStatus  `json:"status"`
	StatusText   string       `json:"statusText,omitempty"`
	PayMethod    string       `json:"payMethod,omitempty"`
	RefundReason string       `json:"refundReason,omitempty"`
	Shipping     ShippingInfo `json:"shipping"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// OrderPage is the payload for paginated order listings.
type OrderPage struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
}
