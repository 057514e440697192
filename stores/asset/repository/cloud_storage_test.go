package repository

import (
	"io/ioutil"
	"testing"
	"time"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	bCtx "github.com/shelterseek/goapi/base/ctx"
	"github.com/shelterseek/goapi/domain"
	"github.com/shelterseek/goapi/domain/asset"
)

type cloudStorageTestSuite struct {
	suite.Suite
	client     *storage.Client
	bucketName string
	im         asset.Repo
}

func (suite *cloudStorageTestSuite) SetupSuite() {
	ctx := bCtx.Background()
	client, err := storage.NewClient(ctx)
	suite.NoError(err)

	suite.client = client
	suite.bucketName = "dev-assets.shelterseek.io"
	suite.im = NewCloudStorage(&CloudStorageRepoCfg{
		Client:     client,
		BucketName: suite.bucketName,
		Timeout:    10 * time.Second,
	})
}

func (suite *cloudStorageTestSuite) TearDownSuite() {
	suite.NoError(suite.client.Close())
}

func TestCloudStorageRepo(t *testing.T) {
	t.Skip("requires google cloud storage auth")
	suite.Run(t, new(cloudStorageTestSuite))
}

func (suite *cloudStorageTestSuite) TestPutGetDelete() {
	req := require.New(suite.T())
	ctx := bCtx.Background()

	content := []byte("fake image bytes")
	id, err := suite.im.Put(ctx, content, "image/jpeg")
	req.NoError(err)
	req.NotEmpty(id)

	contentType, body, err := suite.im.Get(ctx, id)
	req.NoError(err)
	req.Equal("image/jpeg", contentType)

	got, err := ioutil.ReadAll(body)
	req.NoError(err)
	req.NoError(body.Close())
	req.Equal(content, got)

	req.NoError(suite.im.Delete(ctx, id))
	req.Equal(domain.ErrNotFound, suite.im.Delete(ctx, id))

	_, _, err = suite.im.Get(ctx, id)
	req.Equal(domain.ErrNotFound, err)
}
