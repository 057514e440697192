package usecase

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/shelterseek/goapi/base/ctx"
	"github.com/shelterseek/goapi/domain"
	"github.com/shelterseek/goapi/domain/asset"
	"github.com/shelterseek/goapi/domain/listing"
)

type ListingUseCaseCfg struct {
	ListingRepo listing.Repo
	AssetUC     asset.Usecase
	Replicator  listing.Replicator
}

type impl struct {
	listing    listing.Repo
	asset      asset.Usecase
	replicator listing.Replicator
}

// New creates the lifecycle manager orchestrating the primary store, the
// binary asset store and the replication engine.
func New(cfg *ListingUseCaseCfg) listing.Usecase {
	return &impl{
		listing:    cfg.ListingRepo,
		asset:      cfg.AssetUC,
		replicator: cfg.Replicator,
	}
}

func (im *impl) Create(c ctx.Ctx, payload *listing.CreatePayload, submitter listing.Host, files []asset.Upload) (*listing.Listing, error) {
	dates, err := listing.ParseDates(payload.UnavailableDates)
	if err != nil {
		c.WithField("err", err).Warn("listing.ParseDates failed")
		return nil, err
	}

	price, err := strconv.ParseFloat(payload.Price, 64)
	if err != nil || price < 0 {
		return nil, domain.ErrBadParamInput
	}

	maxGuests, err := parseRequiredInt(payload.MaxGuests)
	if err != nil {
		return nil, err
	}
	bedrooms, err := parseRequiredInt(payload.Bedrooms)
	if err != nil {
		return nil, err
	}
	beds, err := parseRequiredInt(payload.Beds)
	if err != nil {
		return nil, err
	}

	// uploaded blobs are compensated in reverse if a later step fails
	uploaded := []string{}
	abort := func() {
		for i := len(uploaded) - 1; i >= 0; i-- {
			if err := im.asset.Remove(c, uploaded[i]); err != nil {
				c.WithField("err", err).WithField("assetId", uploaded[i]).Warn("asset.Remove failed during compensation")
			}
		}
	}

	for _, f := range files {
		id, err := im.asset.Upload(c, f)
		if err != nil {
			c.WithField("err", err).Error("asset.Upload failed")
			abort()
			return nil, err
		}
		uploaded = append(uploaded, id)
	}

	now := time.Now().UTC()
	data := &listing.Listing{
		Id:               uuid.New().String(),
		HostName:         submitter.Name,
		HostEmail:        submitter.Email,
		Title:            payload.Title,
		Description:      payload.Description,
		Price:            price,
		Location:         payload.Location,
		Latitude:         parseOptionalFloat(payload.Latitude),
		Longitude:        parseOptionalFloat(payload.Longitude),
		MaxGuests:        maxGuests,
		Bedrooms:         bedrooms,
		Beds:             beds,
		RoomType:         payload.RoomType,
		Amenities:        payload.Amenities,
		Discount:         parseDiscount(payload.Discount),
		Images:           uploaded,
		Status:           listing.StatusPending,
		Likes:            0,
		Booked:           false,
		Reviews:          []string{},
		UnavailableDates: dates,
		CreatedAt:        now,
	}

	if err := im.listing.Create(c, data); err != nil {
		c.WithField("err", err).Error("listing.Create failed")
		abort()
		return nil, err
	}

	return data, nil
}

func (im *impl) Update(c ctx.Ctx, id string, payload *listing.UpdatePayload, submitter listing.Host, files []asset.Upload) (*listing.Listing, error) {
	dates, err := listing.ParseDates(payload.UnavailableDates)
	if err != nil {
		c.WithField("err", err).Warn("listing.ParseDates failed")
		return nil, err
	}

	price, err := strconv.ParseFloat(payload.Price, 64)
	if err != nil || price < 0 {
		return nil, domain.ErrBadParamInput
	}

	maxGuests, err := parseRequiredInt(payload.MaxGuests)
	if err != nil {
		return nil, err
	}
	bedrooms, err := parseRequiredInt(payload.Bedrooms)
	if err != nil {
		return nil, err
	}
	beds, err := parseRequiredInt(payload.Beds)
	if err != nil {
		return nil, err
	}

	// superseded blobs go first so a failed upload never resurrects them
	for _, assetId := range payload.RemovedImages {
		if err := im.asset.Remove(c, assetId); err != nil {
			c.WithField("err", err).WithField("assetId", assetId).Warn("asset.Remove failed")
		}
	}

	// uploaded blobs are compensated in reverse if a later step fails
	uploaded := []string{}
	abort := func() {
		for i := len(uploaded) - 1; i >= 0; i-- {
			if err := im.asset.Remove(c, uploaded[i]); err != nil {
				c.WithField("err", err).WithField("assetId", uploaded[i]).Warn("asset.Remove failed during compensation")
			}
		}
	}

	for _, f := range files {
		aid, err := im.asset.Upload(c, f)
		if err != nil {
			c.WithField("err", err).Error("asset.Upload failed")
			abort()
			return nil, err
		}
		uploaded = append(uploaded, aid)
	}

	// retained first, new last
	images := append(append([]string{}, payload.ExistingImages...), uploaded...)

	patch := listing.Patch{
		HostName:         &submitter.Name,
		HostEmail:        &submitter.Email,
		Title:            &payload.Title,
		Description:      &payload.Description,
		Price:            &price,
		Location:         &payload.Location,
		Latitude:         parseOptionalFloat(payload.Latitude),
		Longitude:        parseOptionalFloat(payload.Longitude),
		MaxGuests:        &maxGuests,
		Bedrooms:         &bedrooms,
		Beds:             &beds,
		RoomType:         &payload.RoomType,
		Amenities:        &payload.Amenities,
		Discount:         parseDiscountPtr(payload.Discount),
		Images:           &images,
		UnavailableDates: &dates,
	}

	// engagement fields only move when the payload carries them
	if payload.Likes != nil {
		likes, err := strconv.Atoi(*payload.Likes)
		if err != nil || likes < 0 {
			abort()
			return nil, domain.ErrBadParamInput
		}
		patch.Likes = &likes
	}
	if payload.Booked != nil {
		booked, err := strconv.ParseBool(*payload.Booked)
		if err != nil {
			abort()
			return nil, domain.ErrBadParamInput
		}
		patch.Booked = &booked
	}
	if payload.Reviews != nil {
		patch.Reviews = &payload.Reviews
	}

	res, err := im.listing.Patch(c, id, patch)
	if err != nil {
		c.WithField("err", err).Error("listing.Patch failed")
		abort()
		return nil, err
	}

	if res.Status == listing.StatusVerified {
		// content edits to a published listing must propagate
		if err := im.replicator.Project(c, id); err != nil {
			c.WithField("err", err).WithField("id", id).Error("replicator.Project failed")
		}
	}

	return res, nil
}

func (im *impl) UpdateStatus(c ctx.Ctx, id string, status listing.Status) (*listing.Listing, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	res, err := im.listing.Patch(c, id, listing.Patch{Status: &status})
	if err != nil {
		return nil, err
	}

	// fires on every status update; unpublish of an absent record is a no-op
	switch res.Status {
	case listing.StatusVerified:
		if err := im.replicator.Project(c, id); err != nil {
			c.WithField("err", err).WithField("id", id).Error("replicator.Project failed")
		}
	case listing.StatusPending, listing.StatusRejected:
		if err := im.replicator.Unpublish(c, id); err != nil {
			c.WithField("err", err).WithField("id", id).Error("replicator.Unpublish failed")
		}
	}

	return res, nil
}

func (im *impl) Delete(c ctx.Ctx, id string) error {
	data, err := im.listing.FindOne(c, id)
	if err != nil {
		return err
	}

	for _, assetId := range data.Images {
		if err := im.asset.Remove(c, assetId); err != nil {
			c.WithField("err", err).WithField("assetId", assetId).Warn("asset.Remove failed")
		}
	}

	if err := im.listing.Remove(c, id); err != nil {
		return err
	}

	if err := im.replicator.Unpublish(c, id); err != nil {
		c.WithField("err", err).WithField("id", id).Error("replicator.Unpublish failed")
	}

	return nil
}

func (im *impl) Get(c ctx.Ctx, id string) (*listing.Listing, error) {
	return im.listing.FindOne(c, id)
}

func (im *impl) List(c ctx.Ctx) ([]*listing.Listing, error) {
	return im.listing.FindAll(c)
}

func (im *impl) Like(c ctx.Ctx, id string) (*listing.Listing, error) {
	res, err := im.listing.IncrementLikes(c, id, 1)
	if err != nil {
		return nil, err
	}

	if res.Status == listing.StatusVerified {
		if err := im.replicator.Project(c, id); err != nil {
			c.WithField("err", err).WithField("id", id).Error("replicator.Project failed")
		}
	}

	return res, nil
}

func parseRequiredInt(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, domain.ErrBadParamInput
	}
	return n, nil
}

func parseOptionalFloat(v string) *float64 {
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

// invalid or missing discount falls back to 0
func parseDiscount(v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func parseDiscountPtr(v string) *float64 {
	f := parseDiscount(v)
	return &f
}
