package repository

import (
	"bytes"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	bCtx "github.com/shelterseek/goapi/base/ctx"
	"github.com/shelterseek/goapi/base/log"
	"github.com/shelterseek/goapi/domain"
	"github.com/shelterseek/goapi/domain/asset"
)

type CloudStorageRepoCfg struct {
	Timeout    time.Duration
	Client     *storage.Client
	BucketName string
}

type cloudStorageRepo struct {
	client     *storage.Client
	bucketName string
	ctxTimeout time.Duration
}

// NewCloudStorage creates the binary asset repository on a GCS bucket.
// Asset ids are generated object names, never client-supplied.
func NewCloudStorage(cfg *CloudStorageRepoCfg) asset.Repo {
	return &cloudStorageRepo{
		client:     cfg.Client,
		bucketName: cfg.BucketName,
		ctxTimeout: cfg.Timeout,
	}
}

func (r *cloudStorageRepo) Put(c bCtx.Ctx, data []byte, contentType string) (string, error) {
	id := uuid.New().String()

	ctx, cancel := bCtx.WithTimeout(c, r.ctxTimeout)
	defer cancel()
	w := r.client.Bucket(r.bucketName).Object(id).NewWriter(ctx)
	if len(contentType) > 0 {
		w.ObjectAttrs.ContentType = contentType
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		ctx.WithFields(log.Fields{
			"assetId": id,
			"err":     err,
		}).Error("failed to copy")
		return "", err
	}
	if err := w.Close(); err != nil {
		ctx.WithFields(log.Fields{
			"assetId": id,
			"err":     err,
		}).Error("failed to close writer")
		return "", err
	}

	return id, nil
}

func (r *cloudStorageRepo) Get(c bCtx.Ctx, id string) (string, io.ReadCloser, error) {
	obj := r.client.Bucket(r.bucketName).Object(id)

	attrs, err := obj.Attrs(c)
	if err == storage.ErrObjectNotExist {
		return "", nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"assetId": id,
			"err":     err,
		}).Error("failed to read object attrs")
		return "", nil, err
	}

	// the reader is handed to the delivery layer, which streams and closes it
	rd, err := obj.NewReader(c)
	if err == storage.ErrObjectNotExist {
		return "", nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"assetId": id,
			"err":     err,
		}).Error("failed to open reader")
		return "", nil, err
	}

	return attrs.ContentType, rd, nil
}

func (r *cloudStorageRepo) Delete(c bCtx.Ctx, id string) error {
	ctx, cancel := bCtx.WithTimeout(c, r.ctxTimeout)
	defer cancel()

	err := r.client.Bucket(r.bucketName).Object(id).Delete(ctx)
	if err == storage.ErrObjectNotExist {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"assetId": id,
			"err":     err,
		}).Error("failed to delete object")
		return err
	}

	return nil
}

func (r *cloudStorageRepo) List(c bCtx.Ctx) ([]asset.Asset, error) {
	res := []asset.Asset{}

	it := r.client.Bucket(r.bucketName).Objects(c, nil)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		} else if err != nil {
			c.WithField("err", err).Error("failed to iterate bucket")
			return nil, err
		}
		res = append(res, asset.Asset{
			Id:          attrs.Name,
			ContentType: attrs.ContentType,
			Size:        attrs.Size,
			UpdatedAt:   attrs.Updated,
		})
	}

	return res, nil
}
