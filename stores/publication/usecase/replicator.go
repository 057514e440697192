package usecase

import (
	"time"

	"github.com/shelterseek/goapi/base/ctx"
	"github.com/shelterseek/goapi/domain"
	"github.com/shelterseek/goapi/domain/listing"
)

type ReplicatorCfg struct {
	ListingRepo   listing.Repo
	PublishedRepo listing.PublishedRepo
}

type replicatorImpl struct {
	listing   listing.Repo
	published listing.PublishedRepo
}

// NewReplicator creates the one-directional synchronizer from the primary
// store to the published store.
func NewReplicator(cfg *ReplicatorCfg) listing.Replicator {
	return &replicatorImpl{
		listing:   cfg.ListingRepo,
		published: cfg.PublishedRepo,
	}
}

func (im *replicatorImpl) Project(c ctx.Ctx, id string) error {
	// always re-read the authoritative record; the caller's in-memory copy
	// may predate fields the triggering mutation never touched
	data, err := im.listing.FindOne(c, id)
	if err != nil {
		c.WithField("err", err).WithField("id", id).Error("listing.FindOne failed")
		return err
	}

	if data.Status != listing.StatusVerified {
		// status flipped between the trigger and the re-read; converge on
		// the current state instead of publishing a stale one
		return im.Unpublish(c, id)
	}

	projected := project(data)
	// PublishedAt is an insert-time default; an overwrite keeps the
	// original publication time
	if prev, err := im.published.FindOne(c, id); err == nil {
		projected.PublishedAt = prev.PublishedAt
	} else if err != domain.ErrNotFound {
		c.WithField("err", err).WithField("id", id).Error("published.FindOne failed")
		return err
	}

	if err := im.published.Upsert(c, projected); err != nil {
		c.WithField("err", err).WithField("id", id).Error("published.Upsert failed")
		return err
	}

	return nil
}

func (im *replicatorImpl) Unpublish(c ctx.Ctx, id string) error {
	if err := im.published.Remove(c, id); err != nil && err != domain.ErrNotFound {
		c.WithField("err", err).WithField("id", id).Error("published.Remove failed")
		return err
	}

	return nil
}

// project builds the published representation, migrating the deprecated
// availability field. The modern set wins when both exist; the legacy field
// never reaches the published record.
func project(data *listing.Listing) *listing.PublishedListing {
	dates := data.UnavailableDates
	if len(dates) == 0 && len(data.LegacyAvailability) > 0 {
		dates = data.LegacyAvailability
	}
	dates = listing.NormalizeDates(dates)

	return &listing.PublishedListing{
		Id:               data.Id,
		HostName:         data.HostName,
		HostEmail:        data.HostEmail,
		Title:            data.Title,
		Description:      data.Description,
		Price:            data.Price,
		Location:         data.Location,
		Latitude:         data.Latitude,
		Longitude:        data.Longitude,
		MaxGuests:        data.MaxGuests,
		Bedrooms:         data.Bedrooms,
		Beds:             data.Beds,
		RoomType:         data.RoomType,
		Amenities:        data.Amenities,
		Discount:         data.Discount,
		Images:           data.Images,
		Likes:            data.Likes,
		Booked:           data.Booked,
		Reviews:          data.Reviews,
		UnavailableDates: dates,
		CreatedAt:        data.CreatedAt,
		PublishedAt:      time.Now().UTC(),
	}
}
