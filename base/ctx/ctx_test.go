package ctx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWithValue(t *testing.T) {
	req := require.New(t)

	c := WithValue(Background(), "requestID", "abc-123")
	req.Equal("abc-123", c.Value("requestID"))
}

func TestWithValues(t *testing.T) {
	req := require.New(t)

	c := WithValues(Background(), map[string]interface{}{
		"listingId": "l-1",
		"assetId":   "a-1",
	})
	req.Equal("l-1", c.Value("listingId"))
	req.Equal("a-1", c.Value("assetId"))
}

func TestWithCancel(t *testing.T) {
	req := require.New(t)

	c, cancel := WithCancel(Background())
	cancel()
	req.ErrorIs(c.Err(), context.Canceled)
}

func TestWithTimeout(t *testing.T) {
	req := require.New(t)

	c, cancel := WithTimeout(Background(), time.Millisecond)
	defer cancel()
	<-c.Done()
	req.ErrorIs(c.Err(), context.DeadlineExceeded)
}
