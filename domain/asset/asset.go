package asset

import (
	"io"
	"time"

	"github.com/shelterseek/goapi/base/ctx"
)

// Asset describes a stored blob.
type Asset struct {
	Id          string    `json:"id"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Upload is one inbound file, fully read out of its multipart staging source
// by the delivery layer before it reaches the usecase.
type Upload struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Repo interface {
	// Put stores a blob and returns its generated asset id.
	Put(c ctx.Ctx, data []byte, contentType string) (string, error)
	// Get streams a blob back; domain.ErrNotFound when absent.
	Get(c ctx.Ctx, id string) (contentType string, body io.ReadCloser, err error)
	// Delete removes a blob; domain.ErrNotFound when absent. Callers on
	// cleanup paths treat that as a logged warning, not a failure.
	Delete(c ctx.Ctx, id string) error
	// List enumerates stored blobs for the orphan sweep.
	List(c ctx.Ctx) ([]Asset, error)
}

// RefLister reports every asset id currently referenced by a listing record.
// Implemented by the primary listing repository.
type RefLister interface {
	ReferencedAssetIds(c ctx.Ctx) (map[string]bool, error)
}

type Usecase interface {
	Upload(c ctx.Ctx, up Upload) (string, error)
	Fetch(c ctx.Ctx, id string) (contentType string, body io.ReadCloser, err error)
	Remove(c ctx.Ctx, id string) error
	// SweepOrphans deletes blobs not referenced by any listing and older
	// than the cutoff, returning the number removed.
	SweepOrphans(c ctx.Ctx, olderThan time.Duration) (int, error)
}
