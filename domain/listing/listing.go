package listing

import (
	"time"

	"github.com/shelterseek/goapi/base/ctx"
	"github.com/shelterseek/goapi/domain/asset"
)

// Host is the authenticated submitter identity supplied per-request by the
// upstream auth layer. Host fields on a listing always come from here, never
// from the client payload.
type Host struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Listing is the canonical record kept in the primary store, regardless of
// moderation status.
type Listing struct {
	Id          string   `json:"id" bson:"id"`
	HostName    string   `json:"hostName" bson:"hostName"`
	HostEmail   string   `json:"hostEmail" bson:"hostEmail"`
	Title       string   `json:"title" bson:"title"`
	Description string   `json:"description" bson:"description"`
	Price       float64  `json:"price" bson:"price"`
	Location    string   `json:"location" bson:"location"`
	Latitude    *float64 `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty" bson:"longitude,omitempty"`
	MaxGuests   int      `json:"maxGuests" bson:"maxGuests"`
	Bedrooms    int      `json:"bedrooms" bson:"bedrooms"`
	Beds        int      `json:"beds" bson:"beds"`
	RoomType    string   `json:"roomType" bson:"roomType"`
	Amenities   []string `json:"amenities" bson:"amenities"`
	Discount    float64  `json:"discount" bson:"discount"`
	// Images holds asset ids into the binary asset store in display order.
	Images  []string `json:"images" bson:"images"`
	Status  Status   `json:"status" bson:"status"`
	Likes   int      `json:"likes" bson:"likes"`
	Booked  bool     `json:"booked" bson:"booked"`
	Reviews []string `json:"reviews" bson:"reviews"`
	// UnavailableDates holds normalized date values with no time-of-day
	// component and no duplicates.
	UnavailableDates []time.Time `json:"unavailableDates" bson:"unavailableDates"`
	// LegacyAvailability is the deprecated predecessor of UnavailableDates.
	// Older records may still carry it; projection migrates it and new code
	// never writes it.
	LegacyAvailability []time.Time `json:"-" bson:"availability,omitempty"`
	CreatedAt          time.Time   `json:"createdAt" bson:"createdAt"`
}

// CreatePayload carries the external form representation of a submission.
// Numeric fields arrive as strings and are parsed by the lifecycle manager.
type CreatePayload struct {
	// Name and Email are accepted for backward compatibility but always
	// overwritten from the authenticated submitter.
	Name        string `form:"name" json:"name"`
	Email       string `form:"email" json:"email"`
	Title       string `form:"title" json:"title" validate:"required"`
	Description string `form:"description" json:"description" validate:"required"`
	Price       string `form:"price" json:"price" validate:"required"`
	Location    string `form:"location" json:"location" validate:"required"`
	Latitude    string `form:"latitude" json:"latitude"`
	Longitude   string `form:"longitude" json:"longitude"`
	MaxGuests   string `form:"maxGuests" json:"maxGuests" validate:"required"`
	Bedrooms    string `form:"bedrooms" json:"bedrooms" validate:"required"`
	Beds        string `form:"beds" json:"beds" validate:"required"`
	RoomType    string `form:"roomType" json:"roomType" validate:"required"`
	Amenities   []string `form:"amenities" json:"amenities"`
	Discount    string   `form:"discount" json:"discount"`
	// UnavailableDates accepts either repeated date values or a single
	// JSON-array string.
	UnavailableDates []string `form:"unavailableDates" json:"unavailableDates"`
}

// UpdatePayload is CreatePayload plus image bookkeeping and the engagement
// fields a host-side tool may set explicitly. Engagement fields absent from
// the payload must not reset stored values.
type UpdatePayload struct {
	CreatePayload
	// RemovedImages names asset ids to delete from the binary store.
	RemovedImages []string `form:"removedImages" json:"removedImages"`
	// ExistingImages lists the retained asset ids in display order; new
	// uploads are appended after them.
	ExistingImages []string `form:"existingImages" json:"existingImages"`
	Likes          *string  `form:"likes" json:"likes"`
	Booked         *string  `form:"booked" json:"booked"`
	Reviews        []string `form:"reviews" json:"reviews"`
}

// Patch is the bson-level update document for the atomic find-and-update
// path. Pointer fields distinguish "set to zero value" from "leave alone".
type Patch struct {
	HostName         *string      `bson:"hostName,omitempty"`
	HostEmail        *string      `bson:"hostEmail,omitempty"`
	Title            *string      `bson:"title,omitempty"`
	Description      *string      `bson:"description,omitempty"`
	Price            *float64     `bson:"price,omitempty"`
	Location         *string      `bson:"location,omitempty"`
	Latitude         *float64     `bson:"latitude,omitempty"`
	Longitude        *float64     `bson:"longitude,omitempty"`
	MaxGuests        *int         `bson:"maxGuests,omitempty"`
	Bedrooms         *int         `bson:"bedrooms,omitempty"`
	Beds             *int         `bson:"beds,omitempty"`
	RoomType         *string      `bson:"roomType,omitempty"`
	Amenities        *[]string    `bson:"amenities,omitempty"`
	Discount         *float64     `bson:"discount,omitempty"`
	Images           *[]string    `bson:"images,omitempty"`
	Status           *Status      `bson:"status,omitempty"`
	Likes            *int         `bson:"likes,omitempty"`
	Booked           *bool        `bson:"booked,omitempty"`
	Reviews          *[]string    `bson:"reviews,omitempty"`
	UnavailableDates *[]time.Time `bson:"unavailableDates,omitempty"`
}

type Repo interface {
	Create(c ctx.Ctx, value *Listing) error
	FindOne(c ctx.Ctx, id string) (*Listing, error)
	FindAll(c ctx.Ctx) ([]*Listing, error)
	// Patch applies an atomic find-and-update keyed by id and returns the
	// updated document. Fails with domain.ErrNotFound when id is absent.
	Patch(c ctx.Ctx, id string, patch Patch) (*Listing, error)
	IncrementLikes(c ctx.Ctx, id string, inc int) (*Listing, error)
	Remove(c ctx.Ctx, id string) error
	// ReferencedAssetIds reports every image asset id referenced by any
	// listing, regardless of status.
	ReferencedAssetIds(c ctx.Ctx) (map[string]bool, error)
}

type Usecase interface {
	Create(c ctx.Ctx, payload *CreatePayload, submitter Host, files []asset.Upload) (*Listing, error)
	Update(c ctx.Ctx, id string, payload *UpdatePayload, submitter Host, files []asset.Upload) (*Listing, error)
	UpdateStatus(c ctx.Ctx, id string, status Status) (*Listing, error)
	Delete(c ctx.Ctx, id string) error
	Get(c ctx.Ctx, id string) (*Listing, error)
	List(c ctx.Ctx) ([]*Listing, error)
	Like(c ctx.Ctx, id string) (*Listing, error)
}
