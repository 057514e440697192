package usecase

import (
	"github.com/shelterseek/goapi/base/ctx"
	"github.com/shelterseek/goapi/domain/listing"
)

type publishedImpl struct {
	published listing.PublishedRepo
}

func NewPublished(published listing.PublishedRepo) listing.PublishedUsecase {
	return &publishedImpl{published}
}

func (im *publishedImpl) Get(c ctx.Ctx, id string) (*listing.PublishedListing, error) {
	return im.published.FindOne(c, id)
}

func (im *publishedImpl) List(c ctx.Ctx) ([]*listing.PublishedListing, error) {
	return im.published.FindAll(c)
}
