package repository

import (
	"github.com/shelterseek/goapi/base/ctx"
	"github.com/shelterseek/goapi/domain"
	"github.com/shelterseek/goapi/domain/listing"
	"github.com/shelterseek/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

type impl struct {
	q query.Mongo
}

// New creates the published listing repository backed by the second mongo
// handle
func New(q query.Mongo) listing.PublishedRepo {
	return &impl{q}
}

func (im *impl) Upsert(c ctx.Ctx, value *listing.PublishedListing) error {
	// full-document replace keyed by id; fields absent from the projection
	// cannot survive an overwrite
	if err := im.q.Upsert(c, domain.TablePublishedListings, bson.M{"id": value.Id}, value); err != nil {
		c.WithField("err", err).Error("q.Upsert failed")
		return err
	}

	return nil
}

func (im *impl) FindOne(c ctx.Ctx, id string) (*listing.PublishedListing, error) {
	res := &listing.PublishedListing{}

	if err := im.q.FindOne(c, domain.TablePublishedListings, bson.M{"id": id}, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}

	return res, nil
}

func (im *impl) FindAll(c ctx.Ctx) ([]*listing.PublishedListing, error) {
	res := []*listing.PublishedListing{}

	if err := im.q.Search(c, domain.TablePublishedListings, 0, 0, "-createdAt", bson.M{}, &res); err != nil {
		c.WithField("err", err).Error("q.Search failed")
		return nil, err
	}

	return res, nil
}

func (im *impl) Remove(c ctx.Ctx, id string) error {
	if err := im.q.Remove(c, domain.TablePublishedListings, bson.M{"id": id}); err == query.ErrNotFound {
		// unpublishing an absent record is a no-op
		return nil
	} else if err != nil {
		c.WithField("err", err).Error("q.Remove failed")
		return err
	}

	return nil
}
