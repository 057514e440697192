package listing

import (
	"time"

	"github.com/shelterseek/goapi/base/ctx"
)

// PublishedListing is the read-optimized projection of a verified listing,
// kept in the published store and keyed by the same id. It never carries the
// legacy availability field.
type PublishedListing struct {
	Id               string      `json:"id" bson:"id"`
	HostName         string      `json:"hostName" bson:"hostName"`
	HostEmail        string      `json:"hostEmail" bson:"hostEmail"`
	Title            string      `json:"title" bson:"title"`
	Description      string      `json:"description" bson:"description"`
	Price            float64     `json:"price" bson:"price"`
	Location         string      `json:"location" bson:"location"`
	Latitude         *float64    `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude        *float64    `json:"longitude,omitempty" bson:"longitude,omitempty"`
	MaxGuests        int         `json:"maxGuests" bson:"maxGuests"`
	Bedrooms         int         `json:"bedrooms" bson:"bedrooms"`
	Beds             int         `json:"beds" bson:"beds"`
	RoomType         string      `json:"roomType" bson:"roomType"`
	Amenities        []string    `json:"amenities" bson:"amenities"`
	Discount         float64     `json:"discount" bson:"discount"`
	Images           []string    `json:"images" bson:"images"`
	Likes            int         `json:"likes" bson:"likes"`
	Booked           bool        `json:"booked" bson:"booked"`
	Reviews          []string    `json:"reviews" bson:"reviews"`
	UnavailableDates []time.Time `json:"unavailableDates" bson:"unavailableDates"`
	CreatedAt        time.Time   `json:"createdAt" bson:"createdAt"`
	PublishedAt      time.Time   `json:"publishedAt" bson:"publishedAt"`
}

type PublishedRepo interface {
	// Upsert inserts or fully overwrites the projection keyed by id.
	Upsert(c ctx.Ctx, value *PublishedListing) error
	FindOne(c ctx.Ctx, id string) (*PublishedListing, error)
	FindAll(c ctx.Ctx) ([]*PublishedListing, error)
	// Remove deletes the projection; a missing record is not an error.
	Remove(c ctx.Ctx, id string) error
}

// PublishedUsecase is the traveler-facing read surface over the published
// store.
type PublishedUsecase interface {
	Get(c ctx.Ctx, id string) (*PublishedListing, error)
	List(c ctx.Ctx) ([]*PublishedListing, error)
}

// Replicator is the one-directional synchronizer from the primary store to
// the published store. It runs only as a side effect of lifecycle
// operations, never as an independent poller, and its failures must not fail
// the triggering operation.
type Replicator interface {
	Project(c ctx.Ctx, id string) error
	Unpublish(c ctx.Ctx, id string) error
}
