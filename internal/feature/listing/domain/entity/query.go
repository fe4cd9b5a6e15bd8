package entity

// SortOrder selects the ordering of search results.
type SortOrder int

const (
	// SortNatural is insertion order: created_at, then id.
	SortNatural SortOrder = iota
	SortPriceAsc
	SortPriceDesc
)

// ListingQuery is the store-level search request.
// Nil price bounds are not applied. Price sorts break ties by natural order.
type ListingQuery struct {
	Title    string
	PriceMin *float64
	PriceMax *float64
	Sort     SortOrder
	Skip     int
	Limit    int
}
