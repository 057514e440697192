package domain

// Table is a mongo collection name
type Table string

const (
	// TableListings is the primary listing store, owned by the host-facing side
	TableListings Table = "listings"
	// TablePublishedListings is the derived store of verified listings,
	// consumed by the traveler-facing surface
	TablePublishedListings Table = "publishedListings"
)
