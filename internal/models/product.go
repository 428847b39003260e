package models

import "time"

type ProductStatus string

const (
	ProductStatusOnSale  ProductStatus = "ON_SALE"
	ProductStatusOffSale ProductStatus = "OFF_SALE"
)

type Product struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	Stock       int           `json:"stock"`
	CategoryID  string        `json:"categoryId"`
	ImageURL    string        `json:"imageUrl"`
	Status      ProductStatus `json:"status"`
	Sales       int           `json:"sales"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Sort int    `json:"sort"`
}

// ProductPage is the payload for every paginated product listing.
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}
