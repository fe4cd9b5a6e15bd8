// Package api defines the JSON contract shared by all HTTP handlers.
package api

// MessageResponse is the body of every error and of plain acknowledgements.
type MessageResponse struct {
	Message string `json:"message"`
}

// AvatarResponse points at the stored avatar.
type AvatarResponse struct {
	SecureURL string `json:"secure_url"`
}

// AccountResponse is the public part of a user.
type AccountResponse struct {
	Username string         `json:"username"`
	Avatar   AvatarResponse `json:"avatar"`
}

// SessionResponse is returned by signup and login.
type SessionResponse struct {
	ID      string          `json:"id"`
	Token   string          `json:"token"`
	Account AccountResponse `json:"account"`
}

// ImageResponse describes a stored picture.
type ImageResponse struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// ListingResponse is the public shape of an offer.
// ProductDetails is an ordered list of single-key objects:
// brand, size, condition, color, location.
type ListingResponse struct {
	ID                 string              `json:"_id"`
	ProductName        string              `json:"product_name"`
	ProductDescription string              `json:"product_description"`
	ProductPrice       float64             `json:"product_price"`
	ProductDetails     []map[string]string `json:"product_details"`
	ProductImage       ImageResponse       `json:"product_image"`
	Owner              string              `json:"owner"`
	CreatedAt          string              `json:"created_at"`
}

// SearchResponse is the body of GET /offer. Count is the size of this page.
type SearchResponse struct {
	Count  int               `json:"count"`
	Offers []ListingResponse `json:"offers"`
}
