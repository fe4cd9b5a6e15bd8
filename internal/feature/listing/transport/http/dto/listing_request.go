// Package dto defines data transfer objects for the listing feature's HTTP transport layer.
package dto

// ListingForm is the multipart form of publish and update. The picture file is read separately.
type ListingForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Price       string `form:"price"`
	Condition   string `form:"condition"`
	City        string `form:"city"`
	Brand       string `form:"brand"`
	Size        string `form:"size"`
	Color       string `form:"color"`
}

// SearchQuery is the query string of GET /offer.
type SearchQuery struct {
	Title    string `form:"title"`
	PriceMin string `form:"priceMin"`
	PriceMax string `form:"priceMax"`
	Sort     string `form:"sort"`
	Page     string `form:"page"`
}
