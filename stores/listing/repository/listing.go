package repository

import (
	"github.com/shelterseek/goapi/base/ctx"
	"github.com/shelterseek/goapi/base/database/mongoclient"
	"github.com/shelterseek/goapi/domain"
	"github.com/shelterseek/goapi/domain/listing"
	"github.com/shelterseek/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

type impl struct {
	q query.Mongo
}

// New creates the primary listing repository backed by mongo
func New(q query.Mongo) listing.Repo {
	return &impl{q}
}

func (im *impl) Create(c ctx.Ctx, value *listing.Listing) error {
	if err := im.q.Insert(c, domain.TableListings, value); err != nil {
		c.WithField("err", err).Error("q.Insert failed")
		return err
	}

	return nil
}

func (im *impl) FindOne(c ctx.Ctx, id string) (*listing.Listing, error) {
	res := &listing.Listing{}

	if err := im.q.FindOne(c, domain.TableListings, bson.M{"id": id}, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}

	return res, nil
}

func (im *impl) FindAll(c ctx.Ctx) ([]*listing.Listing, error) {
	res := []*listing.Listing{}

	if err := im.q.Search(c, domain.TableListings, 0, 0, "-createdAt", bson.M{}, &res); err != nil {
		c.WithField("err", err).Error("q.Search failed")
		return nil, err
	}

	return res, nil
}

func (im *impl) Patch(c ctx.Ctx, id string, patch listing.Patch) (*listing.Listing, error) {
	val, err := mongoclient.MakeBsonM(patch)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return nil, err
	}

	res := &listing.Listing{}
	if err := im.q.FindOneAndPatch(c, domain.TableListings, bson.M{"id": id}, val, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.FindOneAndPatch failed")
		return nil, err
	}

	return res, nil
}

func (im *impl) IncrementLikes(c ctx.Ctx, id string, inc int) (*listing.Listing, error) {
	res := &listing.Listing{}

	if err := im.q.Increment(c, domain.TableListings, bson.M{"id": id}, res, "likes", inc); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.Increment failed")
		return nil, err
	}

	return res, nil
}

func (im *impl) Remove(c ctx.Ctx, id string) error {
	if err := im.q.Remove(c, domain.TableListings, bson.M{"id": id}); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.Remove failed")
		return err
	}

	return nil
}

func (im *impl) ReferencedAssetIds(c ctx.Ctx) (map[string]bool, error) {
	vals, err := im.q.Distinct(c, domain.TableListings, "images", bson.M{})
	if err != nil {
		c.WithField("err", err).Error("q.Distinct failed")
		return nil, err
	}

	refs := map[string]bool{}
	for _, v := range vals {
		if id, ok := v.(string); ok {
			refs[id] = true
		}
	}

	return refs, nil
}
