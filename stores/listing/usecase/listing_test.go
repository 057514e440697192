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
	"github.com/shelterseek/goapi/domain/listing"
)

var mockCtx = bCtx.Background()

// fakeListingRepo keeps listings in memory with patch semantics close
// enough to the mongo repository for lifecycle tests.
type fakeListingRepo struct {
	byId map[string]*listing.Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{byId: map[string]*listing.Listing{}}
}

func (r *fakeListingRepo) Create(c bCtx.Ctx, value *listing.Listing) error {
	cp := *value
	r.byId[value.Id] = &cp
	return nil
}

func (r *fakeListingRepo) FindOne(c bCtx.Ctx, id string) (*listing.Listing, error) {
	if l, ok := r.byId[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeListingRepo) FindAll(c bCtx.Ctx) ([]*listing.Listing, error) {
	res := []*listing.Listing{}
	for _, l := range r.byId {
		cp := *l
		res = append(res, &cp)
	}
	return res, nil
}

func (r *fakeListingRepo) Patch(c bCtx.Ctx, id string, patch listing.Patch) (*listing.Listing, error) {
	l, ok := r.byId[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.HostName != nil {
		l.HostName = *patch.HostName
	}
	if patch.HostEmail != nil {
		l.HostEmail = *patch.HostEmail
	}
	if patch.Title != nil {
		l.Title = *patch.Title
	}
	if patch.Description != nil {
		l.Description = *patch.Description
	}
	if patch.Price != nil {
		l.Price = *patch.Price
	}
	if patch.Location != nil {
		l.Location = *patch.Location
	}
	if patch.MaxGuests != nil {
		l.MaxGuests = *patch.MaxGuests
	}
	if patch.Bedrooms != nil {
		l.Bedrooms = *patch.Bedrooms
	}
	if patch.Beds != nil {
		l.Beds = *patch.Beds
	}
	if patch.RoomType != nil {
		l.RoomType = *patch.RoomType
	}
	if patch.Amenities != nil {
		l.Amenities = *patch.Amenities
	}
	if patch.Discount != nil {
		l.Discount = *patch.Discount
	}
	if patch.Images != nil {
		l.Images = *patch.Images
	}
	if patch.Status != nil {
		l.Status = *patch.Status
	}
	if patch.Likes != nil {
		l.Likes = *patch.Likes
	}
	if patch.Booked != nil {
		l.Booked = *patch.Booked
	}
	if patch.Reviews != nil {
		l.Reviews = *patch.Reviews
	}
	if patch.UnavailableDates != nil {
		l.UnavailableDates = *patch.UnavailableDates
	}
	cp := *l
	return &cp, nil
}

func (r *fakeListingRepo) IncrementLikes(c bCtx.Ctx, id string, inc int) (*listing.Listing, error) {
	l, ok := r.byId[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	l.Likes += inc
	cp := *l
	return &cp, nil
}

func (r *fakeListingRepo) Remove(c bCtx.Ctx, id string) error {
	if _, ok := r.byId[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byId, id)
	return nil
}

func (r *fakeListingRepo) ReferencedAssetIds(c bCtx.Ctx) (map[string]bool, error) {
	refs := map[string]bool{}
	for _, l := range r.byId {
		for _, id := range l.Images {
			refs[id] = true
		}
	}
	return refs, nil
}

// fakeAssetUC stores blobs in memory and can be told to fail the nth upload.
type fakeAssetUC struct {
	blobs   map[string][]byte
	seq     int
	failAt  int // 1-based upload index to fail at, 0 disables
	removed []string
}

func newFakeAssetUC() *fakeAssetUC {
	return &fakeAssetUC{blobs: map[string][]byte{}}
}

func (f *fakeAssetUC) Upload(c bCtx.Ctx, up asset.Upload) (string, error) {
	f.seq++
	if f.failAt != 0 && f.seq == f.failAt {
		return "", fmt.Errorf("upload failed")
	}
	id := fmt.Sprintf("asset-%d", f.seq)
	f.blobs[id] = up.Content
	return id, nil
}

func (f *fakeAssetUC) Fetch(c bCtx.Ctx, id string) (string, io.ReadCloser, error) {
	if _, ok := f.blobs[id]; !ok {
		return "", nil, domain.ErrNotFound
	}
	return "image/jpeg", io.NopCloser(nil), nil
}

func (f *fakeAssetUC) Remove(c bCtx.Ctx, id string) error {
	f.removed = append(f.removed, id)
	if _, ok := f.blobs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.blobs, id)
	return nil
}

func (f *fakeAssetUC) SweepOrphans(c bCtx.Ctx, olderThan time.Duration) (int, error) {
	return 0, nil
}

// fakeReplicator records the order of projection calls.
type fakeReplicator struct {
	projected   []string
	unpublished []string
	projectErr  error
}

func (f *fakeReplicator) Project(c bCtx.Ctx, id string) error {
	f.projected = append(f.projected, id)
	return f.projectErr
}

func (f *fakeReplicator) Unpublish(c bCtx.Ctx, id string) error {
	f.unpublished = append(f.unpublished, id)
	return nil
}

type listingUCSuite struct {
	suite.Suite

	repo       *fakeListingRepo
	assets     *fakeAssetUC
	replicator *fakeReplicator
	uc         listing.Usecase
}

func Test(t *testing.T) {
	suite.Run(t, new(listingUCSuite))
}

func (s *listingUCSuite) SetupTest() {
	s.repo = newFakeListingRepo()
	s.assets = newFakeAssetUC()
	s.replicator = &fakeReplicator{}
	s.uc = New(&ListingUseCaseCfg{
		ListingRepo: s.repo,
		AssetUC:     s.assets,
		Replicator:  s.replicator,
	})
}

func (s *listingUCSuite) validPayload() *listing.CreatePayload {
	return &listing.CreatePayload{
		Title:       "Room A",
		Description: "cozy",
		Price:       "100",
		Location:    "Lisbon",
		MaxGuests:   "2",
		Bedrooms:    "1",
		Beds:        "1",
		RoomType:    "private",
	}
}

var submitter = listing.Host{Name: "Ada", Email: "ada@example.com"}

func (s *listingUCSuite) TestCreateDefaults() {
	files := []asset.Upload{{Filename: "a.jpg", Content: []byte("a")}}

	res, err := s.uc.Create(mockCtx, s.validPayload(), submitter, files)
	s.NoError(err)
	s.Equal(listing.StatusPending, res.Status)
	s.Equal(0, res.Likes)
	s.False(res.Booked)
	s.Empty(res.Reviews)
	s.Len(res.Images, 1)
	s.Equal("Ada", res.HostName)
	s.Equal("ada@example.com", res.HostEmail)
	s.Equal(float64(100), res.Price)
}

func (s *listingUCSuite) TestCreateOverwritesPayloadIdentity() {
	p := s.validPayload()
	p.Name = "Mallory"
	p.Email = "mallory@example.com"

	res, err := s.uc.Create(mockCtx, p, submitter, nil)
	s.NoError(err)
	s.Equal("Ada", res.HostName)
	s.Equal("ada@example.com", res.HostEmail)
}

func (s *listingUCSuite) TestCreateInvalidDiscountDefaultsToZero() {
	p := s.validPayload()
	p.Discount = "not-a-number"

	res, err := s.uc.Create(mockCtx, p, submitter, nil)
	s.NoError(err)
	s.Equal(float64(0), res.Discount)
}

func (s *listingUCSuite) TestCreateCompensatesUploadedBlobs() {
	s.assets.failAt = 3
	files := []asset.Upload{
		{Filename: "a.jpg", Content: []byte("a")},
		{Filename: "b.jpg", Content: []byte("b")},
		{Filename: "c.jpg", Content: []byte("c")},
	}

	_, err := s.uc.Create(mockCtx, s.validPayload(), submitter, files)
	s.Error(err)
	s.Empty(s.assets.blobs)
	// reverse order
	s.Equal([]string{"asset-2", "asset-1"}, s.assets.removed)
}

func (s *listingUCSuite) TestCreateParsesDates() {
	p := s.validPayload()
	p.UnavailableDates = []string{`["2026-03-02","2026-03-01","2026-03-01"]`}

	res, err := s.uc.Create(mockCtx, p, submitter, nil)
	s.NoError(err)
	s.Equal([]time.Time{
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	}, res.UnavailableDates)
}

func (s *listingUCSuite) TestUpdatePreservesEngagementFields() {
	created, err := s.uc.Create(mockCtx, s.validPayload(), submitter, nil)
	s.NoError(err)
	s.repo.byId[created.Id].Likes = 5
	s.repo.byId[created.Id].Booked = true
	s.repo.byId[created.Id].Reviews = []string{"great"}

	up := &listing.UpdatePayload{CreatePayload: *s.validPayload()}
	up.Title = "Room B"

	res, err := s.uc.Update(mockCtx, created.Id, up, submitter, nil)
	s.NoError(err)
	s.Equal("Room B", res.Title)
	s.Equal(5, res.Likes)
	s.True(res.Booked)
	s.Equal([]string{"great"}, res.Reviews)
}

func (s *listingUCSuite) TestUpdateImageOrderRetainedThenNew() {
	created, err := s.uc.Create(mockCtx, s.validPayload(), submitter, []asset.Upload{
		{Filename: "a.jpg", Content: []byte("a")},
		{Filename: "b.jpg", Content: []byte("b")},
	})
	s.NoError(err)
	s.Equal([]string{"asset-1", "asset-2"}, created.Images)

	up := &listing.UpdatePayload{
		CreatePayload:  *s.validPayload(),
		RemovedImages:  []string{"asset-1"},
		ExistingImages: []string{"asset-2"},
	}
	res, err := s.uc.Update(mockCtx, created.Id, up, submitter, []asset.Upload{
		{Filename: "c.jpg", Content: []byte("c")},
	})
	s.NoError(err)
	s.Equal([]string{"asset-2", "asset-3"}, res.Images)

	_, ok := s.assets.blobs["asset-1"]
	s.False(ok)
}

func (s *listingUCSuite) TestUpdateReprojectsWhileVerified() {
	created, err := s.uc.Create(mockCtx, s.validPayload(), submitter, nil)
	s.NoError(err)
	s.repo.byId[created.Id].Status = listing.StatusVerified

	up := &listing.UpdatePayload{CreatePayload: *s.validPayload()}
	_, err = s.uc.Update(mockCtx, created.Id, up, submitter, nil)
	s.NoError(err)
	s.Equal([]string{created.Id}, s.replicator.projected)
}

func (s *listingUCSuite) TestUpdateNotFound() {
	up := &listing.UpdatePayload{CreatePayload: *s.validPayload()}
	_, err := s.uc.Update(mockCtx, "no-such-id", up, submitter, nil)
	s.Equal(domain.ErrNotFound, err)
}

func (s *listingUCSuite) TestUpdateNotFoundCompensatesUploadedBlobs() {
	up := &listing.UpdatePayload{CreatePayload: *s.validPayload()}
	files := []asset.Upload{
		{Filename: "a.jpg", Content: []byte("a")},
		{Filename: "b.jpg", Content: []byte("b")},
	}

	_, err := s.uc.Update(mockCtx, "no-such-id", up, submitter, files)
	s.Equal(domain.ErrNotFound, err)
	s.Empty(s.assets.blobs)
	// reverse order
	s.Equal([]string{"asset-2", "asset-1"}, s.assets.removed)
}

func (s *listingUCSuite) TestUpdateBadEngagementFieldCompensatesUploadedBlobs() {
	created, err := s.uc.Create(mockCtx, s.validPayload(), submitter, nil)
	s.NoError(err)

	up := &listing.UpdatePayload{CreatePayload: *s.validPayload()}
	bad := "not-a-number"
	up.Likes = &bad

	_, err = s.uc.Update(mockCtx, created.Id, up, submitter, []asset.Upload{
		{Filename: "a.jpg", Content: []byte("a")},
	})
	s.Equal(domain.ErrBadParamInput, err)
	s.Empty(s.assets.blobs)
}

func (s *listingUCSuite) TestUpdateStatusTriggersReplication() {
	created, err := s.uc.Create(mockCtx, s.validPayload(), submitter, nil)
	s.NoError(err)

	res, err := s.uc.UpdateStatus(mockCtx, created.Id, listing.StatusVerified)
	s.NoError(err)
	s.Equal(listing.StatusVerified, res.Status)
	s.Equal([]string{created.Id}, s.replicator.projected)

	_, err = s.uc.UpdateStatus(mockCtx, created.Id, listing.StatusRejected)
	s.NoError(err)
	s.Equal([]string{created.Id}, s.replicator.unpublished)
}

func (s *listingUCSuite) TestUpdateStatusRejectedFromPendingStillUnpublishes() {
	created, err := s.uc.Create(mockCtx, s.validPayload(), submitter, nil)
	s.NoError(err)

	_, err = s.uc.UpdateStatus(mockCtx, created.Id, listing.StatusRejected)
	s.NoError(err)
	s.Equal([]string{created.Id}, s.replicator.unpublished)
}

func (s *listingUCSuite) TestUpdateStatusInvalid() {
	_, err := s.uc.UpdateStatus(mockCtx, "whatever", listing.Status("archived"))
	s.Equal(domain.ErrInvalidStatus, err)
}

func (s *listingUCSuite) TestReplicationFailureDoesNotFailOperation() {
	created, err := s.uc.Create(mockCtx, s.validPayload(), submitter, nil)
	s.NoError(err)
	s.replicator.projectErr = fmt.Errorf("replica down")

	res, err := s.uc.UpdateStatus(mockCtx, created.Id, listing.StatusVerified)
	s.NoError(err)
	s.Equal(listing.StatusVerified, res.Status)
}

func (s *listingUCSuite) TestDeleteCascades() {
	created, err := s.uc.Create(mockCtx, s.validPayload(), submitter, []asset.Upload{
		{Filename: "a.jpg", Content: []byte("a")},
	})
	s.NoError(err)

	s.NoError(s.uc.Delete(mockCtx, created.Id))

	_, err = s.uc.Get(mockCtx, created.Id)
	s.Equal(domain.ErrNotFound, err)
	s.Empty(s.assets.blobs)
	s.Equal([]string{created.Id}, s.replicator.unpublished)
}

func (s *listingUCSuite) TestLike() {
	created, err := s.uc.Create(mockCtx, s.validPayload(), submitter, nil)
	s.NoError(err)

	res, err := s.uc.Like(mockCtx, created.Id)
	s.NoError(err)
	s.Equal(1, res.Likes)
	s.Empty(s.replicator.projected)

	s.repo.byId[created.Id].Status = listing.StatusVerified
	res, err = s.uc.Like(mockCtx, created.Id)
	s.NoError(err)
	s.Equal(2, res.Likes)
	s.Equal([]string{created.Id}, s.replicator.projected)
}
