package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/shelterseek/goapi/domain/listing"
)

func TestRequireSubmitter(t *testing.T) {
	e := echo.New()
	m := InitMiddleware()

	h := m.RequireSubmitter()(func(c echo.Context) error {
		sub := c.Get("submitter").(listing.Host)
		return c.JSON(http.StatusOK, sub)
	})

	req := httptest.NewRequest(http.MethodPost, "/listings", nil)
	req.Header.Set(HeaderSubmitterName, "Ada Hosts")
	req.Header.Set(HeaderSubmitterEmail, "ada@example.com")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ada@example.com")
}

func TestRequireSubmitterMissingHeaders(t *testing.T) {
	e := echo.New()
	m := InitMiddleware()

	h := m.RequireSubmitter()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/listings", nil)
	req.Header.Set(HeaderSubmitterName, "Ada Hosts")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
