package usecase

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	bCtx "github.com/shelterseek/goapi/base/ctx"
	"github.com/shelterseek/goapi/domain"
	"github.com/shelterseek/goapi/domain/asset"
)

var mockCtx = bCtx.Background()

type storedBlob struct {
	content     []byte
	contentType string
	updatedAt   time.Time
}

type fakeAssetRepo struct {
	blobs map[string]storedBlob
	seq   int
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{blobs: map[string]storedBlob{}}
}

func (r *fakeAssetRepo) Put(c bCtx.Ctx, data []byte, contentType string) (string, error) {
	r.seq++
	id := fmt.Sprintf("asset-%d", r.seq)
	r.blobs[id] = storedBlob{data, contentType, time.Now()}
	return id, nil
}

func (r *fakeAssetRepo) Get(c bCtx.Ctx, id string) (string, io.ReadCloser, error) {
	b, ok := r.blobs[id]
	if !ok {
		return "", nil, domain.ErrNotFound
	}
	return b.contentType, io.NopCloser(nil), nil
}

func (r *fakeAssetRepo) Delete(c bCtx.Ctx, id string) error {
	if _, ok := r.blobs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.blobs, id)
	return nil
}

func (r *fakeAssetRepo) List(c bCtx.Ctx) ([]asset.Asset, error) {
	res := []asset.Asset{}
	for id, b := range r.blobs {
		res = append(res, asset.Asset{
			Id:          id,
			ContentType: b.contentType,
			Size:        int64(len(b.content)),
			UpdatedAt:   b.updatedAt,
		})
	}
	return res, nil
}

type fakeRefLister struct {
	refs map[string]bool
}

func (f *fakeRefLister) ReferencedAssetIds(c bCtx.Ctx) (map[string]bool, error) {
	return f.refs, nil
}

type assetUCSuite struct {
	suite.Suite

	repo *fakeAssetRepo
	refs *fakeRefLister
	uc   asset.Usecase
}

func Test(t *testing.T) {
	suite.Run(t, new(assetUCSuite))
}

func (s *assetUCSuite) SetupTest() {
	s.repo = newFakeAssetRepo()
	s.refs = &fakeRefLister{refs: map[string]bool{}}
	s.uc = New(&AssetUseCaseCfg{
		AssetRepo: s.repo,
		RefLister: s.refs,
	})
}

func (s *assetUCSuite) TestUploadKeepsDeclaredContentType() {
	id, err := s.uc.Upload(mockCtx, asset.Upload{
		Filename:    "a.jpg",
		ContentType: "image/jpeg",
		Content:     []byte("not really a jpeg"),
	})
	s.NoError(err)
	s.Equal("image/jpeg", s.repo.blobs[id].contentType)
}

func (s *assetUCSuite) TestUploadSniffsMissingContentType() {
	// png magic bytes
	png := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}

	id, err := s.uc.Upload(mockCtx, asset.Upload{Filename: "a", Content: png})
	s.NoError(err)
	s.Equal("image/png", s.repo.blobs[id].contentType)
}

func (s *assetUCSuite) TestUploadRejectsEmpty() {
	_, err := s.uc.Upload(mockCtx, asset.Upload{Filename: "a.jpg"})
	s.Equal(domain.ErrBadParamInput, err)
}

func (s *assetUCSuite) TestRemoveMissing() {
	s.Equal(domain.ErrNotFound, s.uc.Remove(mockCtx, "no-such-id"))
}

func (s *assetUCSuite) TestSweepOrphansSkipsReferencedAndRecent() {
	referenced, _ := s.repo.Put(mockCtx, []byte("a"), "image/jpeg")
	orphan, _ := s.repo.Put(mockCtx, []byte("b"), "image/jpeg")
	recent, _ := s.repo.Put(mockCtx, []byte("c"), "image/jpeg")

	s.refs.refs[referenced] = true

	// age the sweepable blobs past the cutoff
	for _, id := range []string{referenced, orphan} {
		b := s.repo.blobs[id]
		b.updatedAt = time.Now().Add(-2 * time.Hour)
		s.repo.blobs[id] = b
	}

	removed, err := s.uc.SweepOrphans(mockCtx, time.Hour)
	s.NoError(err)
	s.Equal(1, removed)

	_, ok := s.repo.blobs[referenced]
	s.True(ok)
	_, ok = s.repo.blobs[orphan]
	s.False(ok)
	_, ok = s.repo.blobs[recent]
	s.True(ok)
}
