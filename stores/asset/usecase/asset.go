package usecase

import (
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/shelterseek/goapi/base/ctx"
	"github.com/shelterseek/goapi/domain"
	"github.com/shelterseek/goapi/domain/asset"
)

type AssetUseCaseCfg struct {
	AssetRepo asset.Repo
	RefLister asset.RefLister
}

type impl struct {
	asset asset.Repo
	refs  asset.RefLister
}

// New creates the binary asset usecase
func New(cfg *AssetUseCaseCfg) asset.Usecase {
	return &impl{
		asset: cfg.AssetRepo,
		refs:  cfg.RefLister,
	}
}

func (im *impl) Upload(c ctx.Ctx, up asset.Upload) (string, error) {
	if len(up.Content) == 0 {
		return "", domain.ErrBadParamInput
	}

	contentType := up.ContentType
	if contentType == "" {
		// multipart parts may omit the content type; sniff it
		contentType = mimetype.Detect(up.Content).String()
	}

	id, err := im.asset.Put(c, up.Content, contentType)
	if err != nil {
		c.WithField("err", err).WithField("filename", up.Filename).Error("asset.Put failed")
		return "", err
	}

	return id, nil
}

func (im *impl) Fetch(c ctx.Ctx, id string) (string, io.ReadCloser, error) {
	return im.asset.Get(c, id)
}

func (im *impl) Remove(c ctx.Ctx, id string) error {
	return im.asset.Delete(c, id)
}

// SweepOrphans removes blobs no listing references anymore. The age cutoff
// keeps blobs uploaded by an in-flight create from being swept before their
// listing record lands.
func (im *impl) SweepOrphans(c ctx.Ctx, olderThan time.Duration) (int, error) {
	refs, err := im.refs.ReferencedAssetIds(c)
	if err != nil {
		c.WithField("err", err).Error("refs.ReferencedAssetIds failed")
		return 0, err
	}

	all, err := im.asset.List(c)
	if err != nil {
		c.WithField("err", err).Error("asset.List failed")
		return 0, err
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, a := range all {
		if refs[a.Id] || a.UpdatedAt.After(cutoff) {
			continue
		}
		if err := im.asset.Delete(c, a.Id); err != nil {
			c.WithField("err", err).WithField("assetId", a.Id).Warn("asset.Delete failed")
			continue
		}
		removed++
	}

	return removed, nil
}
